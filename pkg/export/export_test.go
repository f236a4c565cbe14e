package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Schedule",
		Headers: []string{"name", "start_time", "place"},
		Rows: [][]string{
			{"Linear algebra", "2025-12-01 09:00:00", "H6-304"},
			{"Review, part 2", "2025-12-02 09:00:00", "Online"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "name,start_time,place\nLinear algebra,2025-12-01 09:00:00,H6-304\n\"Review, part 2\",2025-12-02 09:00:00,Online\n", string(out))
}

func TestCSVExporterRejectsRaggedRows(t *testing.T) {
	data := sampleDataset()
	data.Rows = append(data.Rows, []string{"only-one"})
	_, err := NewCSVExporter().Render(data)
	require.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter(3, 2, 1).Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestPDFColumnWidthsFallback(t *testing.T) {
	widths := NewPDFExporter(1).columnWidths(4)
	require.Len(t, widths, 4)
	assert.InDelta(t, pageWidth/4, widths[0], 0.001)
}
