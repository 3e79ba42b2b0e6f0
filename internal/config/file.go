package config

// File represents the structure of the .impactradar configuration file.
// Every field is optional; unset fields leave the Config untouched.
type File struct {
	// OutputDir is the default export directory.
	OutputDir string `yaml:"output_dir,omitempty"`

	// Formats are the default export formats.
	Formats []string `yaml:"formats,omitempty"`

	// Benchmark enables the traditional bank overlay by default.
	Benchmark *bool `yaml:"benchmark,omitempty"`

	// Charts enables charts in structured documents by default.
	Charts *bool `yaml:"charts,omitempty"`

	// Archive records every export in the SQLite archive by default.
	Archive *bool `yaml:"archive,omitempty"`

	// DBDir overrides the archive directory.
	DBDir string `yaml:"db_dir,omitempty"`

	// BatchSize is the default export concurrency.
	BatchSize int `yaml:"batch_size,omitempty"`
}

// Apply copies the values set in the file onto c.
// Fields for which explicit reports true are skipped, so command line flags
// given by the user win over the file. The key passed to explicit is the
// flag name of the field.
func (f *File) Apply(c *Config, explicit func(flag string) bool) {
	if f == nil {
		return
	}
	if explicit == nil {
		explicit = func(string) bool { return false }
	}

	if f.OutputDir != "" && !explicit("output") {
		c.OutputDir = f.OutputDir
	}
	if len(f.Formats) > 0 && !explicit("format") {
		c.Formats = append([]string(nil), f.Formats...)
	}
	if f.Benchmark != nil && !explicit("benchmark") {
		c.Benchmark = *f.Benchmark
	}
	if f.Charts != nil && !explicit("charts") {
		c.Charts = *f.Charts
	}
	if f.Archive != nil && !explicit("archive") {
		c.SaveToDB = *f.Archive
	}
	if f.DBDir != "" && !explicit("db-dir") {
		c.DBDir = f.DBDir
	}
	if f.BatchSize != 0 && !explicit("batch-size") {
		c.BatchSize = f.BatchSize
	}
}
