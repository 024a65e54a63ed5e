package words

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/scythe504/sketchroom/internal"
)

// ReadCsvFile loads rows of `word,difficulty[,category]`. Rows with a bad
// difficulty are skipped and logged.
func ReadCsvFile(filePath string) ([]internal.Word, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("unable to read word file %s: %w", filePath, err)
	}
	defer f.Close()

	return ReadCsv(f)
}

func ReadCsv(r io.Reader) ([]internal.Word, error) {
	csvReader := csv.NewReader(r)
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("unable to parse word list as CSV: %w", err)
	}

	var words []internal.Word
	for i, record := range records {
		if len(record) < 2 {
			log.Warn().Int("line", i+1).Strs("record", record).Msg("skipping short word record")
			continue
		}
		if i == 0 && strings.EqualFold(record[0], "word") {
			continue
		}

		difficulty := internal.WordDifficulty(strings.ToLower(strings.TrimSpace(record[1])))
		switch difficulty {
		case internal.Easy, internal.Medium, internal.Hard:
		default:
			log.Warn().Int("line", i+1).Str("difficulty", record[1]).Msg("skipping word with unknown difficulty")
			continue
		}

		word := internal.Word{
			Word:      record[0],
			Difficult: difficulty,
		}
		if len(record) > 2 {
			word.Category = strings.TrimSpace(record[2])
		}
		words = append(words, word)
	}

	return words, nil
}
