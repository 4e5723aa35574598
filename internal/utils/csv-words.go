package utils

import (
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/scythe504/tabu-backend/internal"
)

//go:embed words.csv
var defaultWords string

// WordBank maps a category to its cards.
type WordBank map[string][]internal.Card

// Cards returns a copy of the category's cards, so callers may consume it as a deck.
func (wb WordBank) Cards(category string) []internal.Card {
	return append([]internal.Card(nil), wb[category]...)
}

func (wb WordBank) Categories() []string {
	categories := make([]string, 0, len(wb))
	for c := range wb {
		categories = append(categories, c)
	}
	return categories
}

// LoadWordBank reads cards from a CSV file, or the built-in deck when filePath is empty.
func LoadWordBank(filePath string) (WordBank, error) {
	if filePath == "" {
		return ReadCardsCSV(strings.NewReader(defaultWords))
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("unable to read word file %s: %w", filePath, err)
	}
	defer f.Close()

	return ReadCardsCSV(f)
}

// ReadCardsCSV parses rows of the form category,word,taboo1|taboo2|...
// Rows starting with # are comments. Malformed rows are skipped.
func ReadCardsCSV(r io.Reader) (WordBank, error) {
	csvReader := csv.NewReader(r)
	csvReader.Comment = '#'
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("unable to parse word file as CSV: %w", err)
	}

	bank := make(WordBank)
	for _, record := range records {
		if len(record) < 3 {
			log.Println("Skipping invalid record: ", record)
			continue
		}

		category := strings.TrimSpace(record[0])
		word := strings.TrimSpace(record[1])
		if category == "" || word == "" {
			log.Println("Skipping record without category or word: ", record)
			continue
		}

		taboo := make([]string, 0, 5)
		for _, t := range strings.Split(record[2], "|") {
			if t = strings.TrimSpace(t); t != "" {
				taboo = append(taboo, t)
			}
		}

		bank[category] = append(bank[category], internal.Card{Word: word, Taboo: taboo})
	}

	if len(bank) == 0 {
		return nil, errors.New("word file contains no cards")
	}

	return bank, nil
}
