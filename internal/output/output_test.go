package output

import (
	"bytes"
	"encoding/json"
	"strconv"
	"testing"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type row struct {
	Name  string `json:"name" yaml:"name"`
	Units int    `json:"units" yaml:"units"`
}

var columns = []Column[row]{
	{ColumnConfig: table.ColumnConfig{Name: "operation"}, Value: func(r row) string { return r.Name }},
	{ColumnConfig: table.ColumnConfig{Name: "units"}, Value: func(r row) string { return strconv.Itoa(r.Units) }},
}

var rows = []row{{Name: "send-sol", Units: 450}, {Name: "stake", Units: 7800}}

func TestParseFormat(t *testing.T) {
	for _, format := range AllFormats {
		parsed, err := ParseFormat(string(format))
		require.NoError(t, err)
		assert.Equal(t, format, parsed)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestListTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, List(&buf, columns, Options{Format: TableFormat, NoStyle: true}, rows, rows))

	out := buf.String()
	assert.Contains(t, out, "OPERATION")
	assert.Contains(t, out, "send-sol")
	assert.Contains(t, out, "7800")
}

func TestListCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, List(&buf, columns, Options{Format: CSVFormat}, rows, rows))
	assert.Equal(t, "operation,units\nsend-sol,450\nstake,7800\n", buf.String())
}

func TestListJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, List(&buf, columns, Options{Format: JSONFormat, Pretty: true}, rows, rows))

	var decoded []row
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, rows, decoded)
}

func TestListYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, List(&buf, columns, Options{Format: YAMLFormat}, rows, rows))

	var decoded []row
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, rows, decoded)
}

func TestNonTabularRejectsTableFormat(t *testing.T) {
	assert.Error(t, NonTabular(&bytes.Buffer{}, Options{Format: TableFormat}, rows))
}
