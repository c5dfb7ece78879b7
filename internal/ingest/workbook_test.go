package ingest

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"wardrivecli/pkg/contracts/domain"
)

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "capture.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestIngestWorkbook(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"BSSID", "SSID", "Channel", "AuthMode", "RSSI", "Latitude", "Longitude", "FirstSeen"},
		{"AA:BB:CC:DD:EE:01", "NetA", 6, "WPA2", -65, 40.7128, -74.0060, "2024-03-01 10:00:00"},
		{"AA:BB:CC:DD:EE:02", "NetB", 161, "[WPA3-SAE-CCMP][ESS]", -70, "", "", ""},
		{"AA:BB:CC:DD:EE:03", "NetC", "bogus", "WPA2", -60, "", "", ""},
	})

	p := NewPipeline(slog.Default(), Config{})
	ds, err := p.Ingest(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, ds.Records, 2)
	assert.Equal(t, domain.Band24GHz, ds.Records[0].Band)
	assert.True(t, ds.Records[0].HasLocation())
	assert.Equal(t, domain.EncryptionWPA3, ds.Records[1].Encryption)
	assert.Equal(t, domain.Band5GHz, ds.Records[1].Band)

	require.Len(t, ds.Discards, 1)
	assert.Equal(t, domain.ReasonInvalidChannel, ds.Discards[0].Reason)
}

func TestIngestWorkbookUnreadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("this is not a zip archive"), 0644))

	p := NewPipeline(slog.Default(), Config{})
	_, err := p.Ingest(context.Background(), path)
	assert.Error(t, err)
}
