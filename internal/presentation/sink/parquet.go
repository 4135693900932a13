package sink

import (
	"io"

	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

type parquetRow struct {
	StartDate       string `parquet:"name=start_date, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	EndDate         string `parquet:"name=end_date, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	ObservationTime string `parquet:"name=observation_time, type=BYTE_ARRAY, convertedtype=UTF8"`
	HRBPM           string `parquet:"name=hr_bpm, type=BYTE_ARRAY, convertedtype=UTF8"`
}

// ParquetSink buffers rows and writes one snappy-compressed parquet file on
// Close. Column names mirror the CSV header; comment lines have no parquet
// representation and are dropped.
type ParquetSink struct {
	w    io.Writer
	rows []Row
}

// NewParquetSink creates a ParquetSink writing to w on Close.
func NewParquetSink(w io.Writer) *ParquetSink {
	return &ParquetSink{w: w}
}

// Header is a no-op; the schema carries the column names.
func (s *ParquetSink) Header() error {
	return nil
}

// Row buffers one data row.
func (s *ParquetSink) Row(row Row) error {
	s.rows = append(s.rows, row)
	return nil
}

// Comment drops the line; parquet has no comment channel.
func (s *ParquetSink) Comment(line string) error {
	return nil
}

// Close encodes all buffered rows and writes the file.
func (s *ParquetSink) Close() error {
	fw := parquetbuffer.NewBufferFile()
	pw, err := writer.NewParquetWriter(fw, new(parquetRow), 4)
	if err != nil {
		return err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, row := range s.rows {
		record := parquetRow{
			StartDate:       row[0],
			EndDate:         row[1],
			ObservationTime: row[2],
			HRBPM:           row[3],
		}
		if err := pw.Write(record); err != nil {
			_ = pw.WriteStop()
			return err
		}
	}
	if err := pw.WriteStop(); err != nil {
		return err
	}
	if err := fw.Close(); err != nil {
		return err
	}

	_, err = s.w.Write(fw.Bytes())
	return err
}
