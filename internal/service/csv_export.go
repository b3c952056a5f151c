package service

import (
	"bufio"
	"io"
	"strings"

	"github.com/SnoopySong/nexaweb/internal/model"
)

// utf8BOM makes spreadsheet tools decode accented characters correctly.
const utf8BOM = "\uFEFF"

var csvHeader = []string{"ID", "Nom", "Email", "Téléphone", "Type de Projet", "Budget", "Message", "Lu", "Date"}

// quoteCSV wraps s in double quotes, doubling embedded quotes.
func quoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// csvField quotes s only when it would otherwise break the row.
func csvField(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return quoteCSV(s)
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "Oui"
	}
	return "Non"
}

// writeMessagesCSV renders messages with a BOM prefix, one row per message.
// The message body is always quoted.
func writeMessagesCSV(w io.Writer, messages []*model.Message) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(utf8BOM); err != nil {
		return err
	}

	header := make([]string, len(csvHeader))
	for i, h := range csvHeader {
		header[i] = csvField(h)
	}
	if _, err := bw.WriteString(strings.Join(header, ",")); err != nil {
		return err
	}

	for _, m := range messages {
		row := []string{
			csvField(m.ID),
			csvField(m.Name),
			csvField(m.Email),
			csvField(deref(m.Phone)),
			csvField(deref(m.ProjectType)),
			csvField(deref(m.Budget)),
			quoteCSV(m.Message),
			yesNo(m.IsRead),
			m.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		}
		if _, err := bw.WriteString("\n" + strings.Join(row, ",")); err != nil {
			return err
		}
	}
	return bw.Flush()
}
