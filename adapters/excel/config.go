package excel

// ImportConfig names the workbook sheets the importer reads. Operators log
// with varying templates, so sheet names are configurable; column layouts
// are fixed per sheet.
type ImportConfig struct {
	TemperatureSheet  string
	MortalitySheet    string
	WeightSampleSheet string
}

// DefaultImportConfig returns the standard operator workbook layout
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		TemperatureSheet:  "Temperatures",
		MortalitySheet:    "Mortalities",
		WeightSampleSheet: "WeightSamples",
	}
}
