package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleExport = `<?xml version="1.0" encoding="UTF-8"?>
<HealthData locale="en_US">
 <ExportDate value="2017-12-01 09:00:00 -0400"/>
 <Me HKCharacteristicTypeIdentifierBiologicalSex="HKBiologicalSexMale"/>
 <Record type="HKQuantityTypeIdentifierHeartRate" sourceName="Saif Ahmed" sourceVersion="4.0" device="&lt;&lt;HKDevice: 0x282d50a50&gt;, name:Apple Watch&gt;" unit="count/min" creationDate="2017-11-15 00:15:23 -0400" startDate="2017-11-15 00:13:33 -0400" endDate="2017-11-15 00:13:33 -0400" value="76"/>
 <Workout workoutActivityType="HKWorkoutActivityTypeRunning" duration="30" startDate="2017-11-20 07:00:00 -0400" endDate="2017-11-20 07:30:00 -0400"/>
 <Record type="HKQuantityTypeIdentifierHeartRateVariabilitySDNN" sourceName="Saif Ahmed" unit="ms" startDate="2017-11-22 19:14:47 -0400" endDate="2017-11-22 19:15:52 -0400" value="32.1111">
  <HeartRateVariabilityMetadataList>
   <InstantaneousBeatsPerMinute bpm="95" time="6:14:48.94 PM"/>
   <InstantaneousBeatsPerMinute bpm="94" time="6:14:49.58 PM"/>
  </HeartRateVariabilityMetadataList>
 </Record>
</HealthData>`

func TestDecodeExport(t *testing.T) {
	doc, err := DecodeExport(strings.NewReader(sampleExport))
	require.NoError(t, err)

	// Interleaved document order survives: Record, Workout, Record.
	require.Len(t, doc.Nodes, 3)
	require.NotNil(t, doc.Nodes[0].Record)
	require.NotNil(t, doc.Nodes[1].Workout)
	require.NotNil(t, doc.Nodes[2].Record)

	hr := doc.Nodes[0].Record
	assert.Equal(t, TypeHeartRate, hr.Type)
	assert.Equal(t, "Saif Ahmed", hr.SourceName)
	assert.Equal(t, "2017-11-15 00:13:33 -0400", hr.StartDate)
	assert.Equal(t, "76", hr.Value)
	assert.Empty(t, hr.BeatSamples)

	w := doc.Nodes[1].Workout
	assert.Equal(t, "HKWorkoutActivityTypeRunning", w.ActivityType)
	assert.Equal(t, "2017-11-20 07:00:00 -0400", w.StartDate)
	assert.Equal(t, "2017-11-20 07:30:00 -0400", w.EndDate)

	hrv := doc.Nodes[2].Record
	assert.Equal(t, TypeHeartRateVariability, hrv.Type)
	require.Len(t, hrv.BeatSamples, 2)
	assert.Equal(t, "95", hrv.BeatSamples[0].BPM)
	assert.Equal(t, "6:14:48.94 PM", hrv.BeatSamples[0].Time)
	assert.Equal(t, "94", hrv.BeatSamples[1].BPM)
}

func TestDecodeExportEntityEscapedDevice(t *testing.T) {
	doc, err := DecodeExport(strings.NewReader(sampleExport))
	require.NoError(t, err)

	// The device attribute is entity-escaped in the document and contains
	// commas once decoded.
	assert.Equal(t, "<<HKDevice: 0x282d50a50>, name:Apple Watch>", doc.Nodes[0].Record.Device)
}

func TestDecodeExportMissingAttributes(t *testing.T) {
	input := `<HealthData><Record startDate="2017-11-15 00:13:33 -0400" endDate="2017-11-15 00:13:33 -0400" value="76"/></HealthData>`
	doc, err := DecodeExport(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, doc.Nodes, 1)
	rec := doc.Nodes[0].Record
	require.NotNil(t, rec)
	assert.Empty(t, rec.Type)
	assert.Empty(t, rec.SourceName)
	assert.Empty(t, rec.Device)
}

func TestDecodeExportMalformedXML(t *testing.T) {
	_, err := DecodeExport(strings.NewReader(`<HealthData><Record type="x"`))
	assert.Error(t, err)
}

func TestRecords(t *testing.T) {
	doc, err := DecodeExport(strings.NewReader(sampleExport))
	require.NoError(t, err)

	records := doc.Records()
	require.Len(t, records, 2)
	assert.Equal(t, TypeHeartRate, records[0].Type)
	assert.Equal(t, TypeHeartRateVariability, records[1].Type)
}

func TestDecodeExportEmptyDocument(t *testing.T) {
	doc, err := DecodeExport(strings.NewReader(`<HealthData></HealthData>`))
	require.NoError(t, err)
	assert.Empty(t, doc.Nodes)
}
