package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/idilsaglam/taskhub/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleTasks = []model.Task{
	{ID: 1, Title: "Mock API: Start", Done: true},
	{ID: 2, Title: "API-Schicht einführen"},
}

func TestTasksJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Tasks(&buf, "JSON", sampleTasks))
	var got []model.Task
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleTasks, got)
}

func TestEmptyJSONIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Tasks(&buf, FormatJSON, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestTasksCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Tasks(&buf, FormatCSV, sampleTasks))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"id", "title", "done"},
		{"1", "Mock API: Start", "true"},
		{"2", "API-Schicht einführen", "false"},
	}, records)
}

func TestPersonsCSV(t *testing.T) {
	id := uuid.MustParse("11111111-1111-4111-8111-111111111111")
	var buf bytes.Buffer
	require.NoError(t, Persons(&buf, FormatCSV, []model.Person{{ID: id, Vorname: "Max", Nachname: "Mustermann", Aktiv: true}}))
	assert.Equal(t, "id,vorname,nachname,aktiv\n"+id.String()+",Max,Mustermann,true\n", buf.String())
}

func TestPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Tasks(&buf, FormatPDF, sampleTasks))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	buf.Reset()
	require.NoError(t, Persons(&buf, FormatPDF, []model.Person{{ID: uuid.New(), Vorname: "Erika", Nachname: "Musterfrau"}}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestUnknownFormat(t *testing.T) {
	err := Tasks(&bytes.Buffer{}, "xml", sampleTasks)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}
