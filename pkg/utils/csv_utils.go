package utils

import (
	"encoding/csv"
	"io"
	"strconv"

	"allgecare/pkg/series"
)

var csvHeader = []string{"index", "dia_registro", "hora", "ph", "temperatura", "label"}

// WriteSamplesCSV writes one row per sample. labels may be shorter than
// samples; missing labels are written empty.
func WriteSamplesCSV(w io.Writer, samples []series.Sample, labels []string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}

	for i, s := range samples {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		record := []string{
			strconv.Itoa(i),
			s.DiaRegistro,
			s.Hora,
			strconv.FormatFloat(s.PH, 'f', -1, 64),
			strconv.FormatFloat(s.Temperature, 'f', -1, 64),
			label,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
