// Package repolist parses the tabular repository list that drives a run.
package repolist

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	supportedListExtensionConstant            = ".csv"
	repositoryURLColumnNameConstant           = "repository_url"
	branchColumnNameConstant                  = "branch"
	unsupportedExtensionMessageConstant       = "unsupported repository list format"
	missingColumnMessageConstant              = "repository list is missing a required column"
	listOpenErrorTemplateConstant             = "failed to open repository list %s: %w"
	listParseErrorTemplateConstant            = "failed to parse repository list %s: %w"
	unsupportedExtensionErrorTemplateConstant = "%w: %s"
	missingColumnErrorTemplateConstant        = "%w: %s"
	columnValueMissingTemplateConstant        = "row %d has no value for column %s"
)

// ErrUnsupportedExtension indicates the repository list file extension is not accepted.
var ErrUnsupportedExtension = errors.New(unsupportedExtensionMessageConstant)

// ErrMissingColumn indicates the header row lacks a required column.
var ErrMissingColumn = errors.New(missingColumnMessageConstant)

// Entry identifies one repository and the branch to operate on.
type Entry struct {
	URL    string
	Branch string
}

// Reader loads repository entries from delimited tabular files.
type Reader struct{}

// NewReader constructs a repository list reader.
func NewReader() *Reader {
	return &Reader{}
}

// Load reads the repository list at the supplied path, preserving row order.
func (reader *Reader) Load(listPath string) ([]Entry, error) {
	listExtension := strings.ToLower(filepath.Ext(listPath))
	if listExtension != supportedListExtensionConstant {
		return nil, fmt.Errorf(unsupportedExtensionErrorTemplateConstant, ErrUnsupportedExtension, listExtension)
	}

	listFile, openError := os.Open(listPath)
	if openError != nil {
		return nil, fmt.Errorf(listOpenErrorTemplateConstant, listPath, openError)
	}
	defer listFile.Close()

	csvReader := csv.NewReader(listFile)
	csvRecords, readError := csvReader.ReadAll()
	if readError != nil {
		return nil, fmt.Errorf(listParseErrorTemplateConstant, listPath, readError)
	}

	if len(csvRecords) == 0 {
		return nil, fmt.Errorf(missingColumnErrorTemplateConstant, ErrMissingColumn, repositoryURLColumnNameConstant)
	}

	columnIndexes := map[string]int{}
	for columnIndex, columnName := range csvRecords[0] {
		columnIndexes[strings.TrimSpace(strings.ToLower(columnName))] = columnIndex
	}

	repositoryURLIndex, repositoryURLPresent := columnIndexes[repositoryURLColumnNameConstant]
	if !repositoryURLPresent {
		return nil, fmt.Errorf(missingColumnErrorTemplateConstant, ErrMissingColumn, repositoryURLColumnNameConstant)
	}

	branchIndex, branchPresent := columnIndexes[branchColumnNameConstant]
	if !branchPresent {
		return nil, fmt.Errorf(missingColumnErrorTemplateConstant, ErrMissingColumn, branchColumnNameConstant)
	}

	entries := make([]Entry, 0, len(csvRecords)-1)
	for rowIndex, csvRecord := range csvRecords[1:] {
		if repositoryURLIndex >= len(csvRecord) {
			return nil, fmt.Errorf(listParseErrorTemplateConstant, listPath, fmt.Errorf(columnValueMissingTemplateConstant, rowIndex+1, repositoryURLColumnNameConstant))
		}
		if branchIndex >= len(csvRecord) {
			return nil, fmt.Errorf(listParseErrorTemplateConstant, listPath, fmt.Errorf(columnValueMissingTemplateConstant, rowIndex+1, branchColumnNameConstant))
		}

		entries = append(entries, Entry{
			URL:    strings.TrimSpace(csvRecord[repositoryURLIndex]),
			Branch: strings.TrimSpace(csvRecord[branchIndex]),
		})
	}

	return entries, nil
}
