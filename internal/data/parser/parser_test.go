package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/penwyp/go-health-extractor/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validExport = `<?xml version="1.0" encoding="UTF-8"?>
<HealthData locale="en_US">
 <Record type="HKQuantityTypeIdentifierHeartRate" sourceName="Watch" startDate="2017-11-15 00:13:33 -0400" endDate="2017-11-15 00:13:33 -0400" value="76"/>
 <Workout workoutActivityType="HKWorkoutActivityTypeRunning" startDate="2017-11-20 07:00:00 -0400" endDate="2017-11-20 07:30:00 -0400"/>
</HealthData>`

func TestNewParser(t *testing.T) {
	p := NewParser()
	assert.NotNil(t, p)
	assert.Empty(t, p.cache)
}

func TestParserParseFile(t *testing.T) {
	p := NewParser()
	tempDir := t.TempDir()

	testFile := filepath.Join(tempDir, "export.xml")
	err := os.WriteFile(testFile, []byte(validExport), 0644)
	require.NoError(t, err)

	doc, err := p.ParseFile(testFile)
	require.NoError(t, err)
	require.Len(t, doc.Nodes, 2)
	assert.Equal(t, model.TypeHeartRate, doc.Nodes[0].Record.Type)
	assert.Equal(t, "HKWorkoutActivityTypeRunning", doc.Nodes[1].Workout.ActivityType)
}

func TestParserParseFileCached(t *testing.T) {
	p := NewParser()
	tempDir := t.TempDir()

	testFile := filepath.Join(tempDir, "export.xml")
	require.NoError(t, os.WriteFile(testFile, []byte(validExport), 0644))

	first, err := p.ParseFile(testFile)
	require.NoError(t, err)

	// A second parse returns the cached document even after the file is gone.
	require.NoError(t, os.Remove(testFile))
	second, err := p.ParseFile(testFile)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestParserInvalidate(t *testing.T) {
	p := NewParser()
	tempDir := t.TempDir()

	testFile := filepath.Join(tempDir, "export.xml")
	require.NoError(t, os.WriteFile(testFile, []byte(validExport), 0644))

	first, err := p.ParseFile(testFile)
	require.NoError(t, err)

	p.Invalidate(testFile)
	second, err := p.ParseFile(testFile)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}

func TestParserParseFileMalformedXML(t *testing.T) {
	p := NewParser()
	tempDir := t.TempDir()

	testFile := filepath.Join(tempDir, "broken.xml")
	require.NoError(t, os.WriteFile(testFile, []byte(`<HealthData><Record`), 0644))

	_, err := p.ParseFile(testFile)
	assert.Error(t, err)
}

func TestParserParseFileNonExistent(t *testing.T) {
	p := NewParser()

	_, err := p.ParseFile("/path/that/does/not/exist.xml")
	assert.Error(t, err)
}
