// internal/output/output.go
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	TableFormat Format = "table"
	CSVFormat   Format = "csv"
	JSONFormat  Format = "json"
	YAMLFormat  Format = "yaml"
)

var AllFormats = []Format{TableFormat, CSVFormat, JSONFormat, YAMLFormat}

// ParseFormat проверяет имя формата.
func ParseFormat(name string) (Format, error) {
	for _, format := range AllFormats {
		if string(format) == name {
			return format, nil
		}
	}
	return "", fmt.Errorf("invalid format %q", name)
}

type Options struct {
	Format  Format
	Pretty  bool // отступы в JSON
	NoStyle bool // таблица без цветов
	Wide    bool // не обрезать длинные значения
}

// Column описывает колонку таблицы и способ получить значение из строки.
type Column[T any] struct {
	table.ColumnConfig
	Value func(T) string
}

// List выводит items таблицей/CSV или, для json/yaml, сериализует value целиком.
func List[T any](w io.Writer, columns []Column[T], options Options, items []T, value any) error {
	switch options.Format {
	case TableFormat, CSVFormat:
		writeTable(w, columns, options, items)
		return nil
	default:
		return NonTabular(w, options, value)
	}
}

// NonTabular сериализует value в JSON или YAML.
func NonTabular(w io.Writer, options Options, value any) error {
	switch options.Format {
	case JSONFormat:
		encoder := json.NewEncoder(w)
		if options.Pretty {
			encoder.SetIndent("", "  ")
		}
		return encoder.Encode(value)
	case YAMLFormat:
		b, err := yaml.Marshal(value)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	default:
		return fmt.Errorf("invalid format %q", options.Format)
	}
}

func writeTable[T any](w io.Writer, columns []Column[T], options Options, items []T) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)

	configs := make([]table.ColumnConfig, len(columns))
	headers := make(table.Row, len(columns))
	for i, column := range columns {
		config := column.ColumnConfig
		config.Number = i + 1
		if options.Wide {
			config.WidthMax = 0
			config.WidthMaxEnforcer = nil
		}
		configs[i] = config
		headers[i] = column.Name
	}
	tw.SetColumnConfigs(configs)
	tw.AppendHeader(headers)

	tw.SetStyle(table.StyleColoredGreenWhiteOnBlack)
	if options.NoStyle || options.Format == CSVFormat {
		tw.SetStyle(table.StyleDefault)
	}

	for _, item := range items {
		row := make(table.Row, len(columns))
		for i, column := range columns {
			row[i] = column.Value(item)
		}
		tw.AppendRow(row)
	}

	if options.Format == CSVFormat {
		tw.RenderCSV()
		return
	}
	tw.Render()
}
