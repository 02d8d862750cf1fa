// package formatter provides functions to export reading list data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/249ali/shelf/internal/models"
	"github.com/249ali/shelf/internal/shared"
)

// ExportToCSV converts a ListExport to CSV format with columns: ID, Title, Author, ISBN, Year
func ExportToCSV(export *models.ListExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Author", "ISBN", "Year"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, book := range export.Books {
		year := ""
		if book.PublishedYear > 0 {
			year = strconv.Itoa(book.PublishedYear)
		}
		record := []string{
			book.ID,
			book.Title,
			book.Author,
			book.ISBN,
			year,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a ListExport to Markdown format with optional cover image
func ExportToMarkdown(export *models.ListExport, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", export.List.Name))

	if imageFilename != "" {
		buf.WriteString(fmt.Sprintf("![Cover](%s)\n\n", imageFilename))
	}

	if export.List.Description != "" {
		buf.WriteString(fmt.Sprintf("**Description**: %s\n\n", export.List.Description))
	}

	buf.WriteString(fmt.Sprintf("**Books**: %d\n\n", len(export.Books)))

	buf.WriteString("## Books\n\n")
	for i, book := range export.Books {
		yearPart := ""
		if book.PublishedYear > 0 {
			yearPart = fmt.Sprintf(" (%d)", book.PublishedYear)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s\n", i+1, book.Author, book.Title, yearPart))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a ListExport to plain text format
func ExportToText(export *models.ListExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Reading list: %s\n", export.List.Name))
	if export.List.Description != "" {
		buf.WriteString(fmt.Sprintf("Description: %s\n", export.List.Description))
	}
	buf.WriteString(fmt.Sprintf("Books: %d\n\n", len(export.Books)))

	for i, book := range export.Books {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, book.Author, book.Title))
	}

	return buf.Bytes(), nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// ToMetadataJSON generates a JSON representation of reading list metadata (without books)
func ToMetadataJSON(list models.ReadingList) ([]byte, error) {
	return shared.MarshalJSON(list, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	BooksFile    string
	MetadataFile string
}

// WriteCSVExport exports a reading list to CSV format with accompanying metadata JSON file.
//
// Defaults to the list ID as the base filename & creates {base}_books.csv and {base}_metadata.json
func WriteCSVExport(export *models.ListExport, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = export.List.ID
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	booksFile := baseFilepath + "_books.csv"
	if err := os.WriteFile(booksFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(export.List)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		BooksFile:    booksFile,
		MetadataFile: metadataFile,
	}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// WriteMarkdownExport exports a reading list to Markdown format in a dedicated directory.
//
// Directory name defaults to the list ID.
// The imageURL parameter is optional - if provided, attempts to download a cover image.
// Creates a directory structure: {dir}/README.md and optionally {dir}/cover.jpg
func WriteMarkdownExport(export *models.ListExport, outputDir string, imageURL string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = export.List.ID
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	var coverImageFilename string
	if imageURL != "" {
		imageData, err := DownloadImage(imageURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to download cover image: %v\n", err)
		} else {
			coverImageFilename = "cover.jpg"
			coverImagePath := fmt.Sprintf("%s/%s", outputDir, coverImageFilename)
			if err := os.WriteFile(coverImagePath, imageData, 0644); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save cover image: %v\n", err)
				coverImageFilename = ""
			} else {
				result.CoverImage = coverImagePath
				result.Files = append(result.Files, coverImagePath)
			}
		}
	}

	mdData, err := ExportToMarkdown(export, coverImageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := fmt.Sprintf("%s/README.md", outputDir)
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteTextExport exports a reading list to plain text format.
//
// Defaults to {list.ID}_books.txt as the filename.
func WriteTextExport(export *models.ListExport, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_books.txt", export.List.ID)
	}

	textData, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}

// ManifestEntry summarizes one list's outcome within a bulk export.
type ManifestEntry struct {
	ListID   string   `json:"list_id"`
	ListName string   `json:"list_name"`
	Success  bool     `json:"success"`
	Files    []string `json:"files,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// BulkExportManifest summarizes an entire bulk export run.
type BulkExportManifest struct {
	Format      string          `json:"format"`
	GeneratedAt time.Time       `json:"generated_at"`
	TotalLists  int             `json:"total_lists"`
	Successful  int             `json:"successful"`
	Failed      int             `json:"failed"`
	Results     []ManifestEntry `json:"results"`
}

// WriteBulkExportManifest writes the manifest summarizing a bulk export run.
func WriteBulkExportManifest(manifest *BulkExportManifest, path string) error {
	if manifest.GeneratedAt.IsZero() {
		manifest.GeneratedAt = time.Now()
	}

	data, err := shared.MarshalJSON(manifest, true)
	if err != nil {
		return fmt.Errorf("failed to generate manifest JSON: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest file: %w", err)
	}

	return nil
}
