package recording_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/notargets/goswe/recording"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gaugeSample struct {
	Time  float64
	Step  int
	Gauge string
	Eta   float64
}

func TestRecorder(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test_recording")
	rec := recording.New(dbPath)

	rec.CreateTable("gauges", gaugeSample{})
	assert.Equal(t, []string{"gauges"}, rec.ListTables())

	rec.InsertData("gauges", gaugeSample{Time: 50, Step: 1, Gauge: "mid", Eta: 0.25})
	rec.InsertData("gauges", gaugeSample{Time: 100, Step: 2, Gauge: "mid", Eta: 0.5})
	rec.Flush()

	db, err := sql.Open("sqlite3", dbPath+".sqlite3")
	require.NoError(t, err, "flushed database should be readable")
	defer db.Close()

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM gauges;").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var (
		tm, eta float64
		step    int
		gauge   string
	)
	err = db.QueryRow("SELECT Time, Step, Gauge, Eta FROM gauges WHERE Step = 2;").
		Scan(&tm, &step, &gauge, &eta)
	require.NoError(t, err)
	assert.Equal(t, 100., tm)
	assert.Equal(t, "mid", gauge)
	assert.InDelta(t, 0.5, eta, 1.e-12)
}

func TestRecorderRejectsUnknownTable(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test_recording_unknown")
	rec := recording.New(dbPath)

	assert.Panics(t, func() {
		rec.InsertData("missing", gaugeSample{})
	})
}

func TestRecorderRejectsNestedFields(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test_recording_nested")
	rec := recording.New(dbPath)

	bad := struct {
		Time   float64
		Fields []float64
	}{}
	assert.Panics(t, func() {
		rec.CreateTable("bad", bad)
	})
}
