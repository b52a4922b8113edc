package types

// Config represents the application configuration that can be loaded from a file.
type Config struct {
	DataDir     string   `json:"data_dir" yaml:"data_dir" toml:"data_dir"`
	Clients     string   `json:"clients" yaml:"clients" toml:"clients"`
	Revenue     string   `json:"revenue" yaml:"revenue" toml:"revenue"`
	SMS         string   `json:"sms" yaml:"sms" toml:"sms"`
	Appointment string   `json:"appointment" yaml:"appointment" toml:"appointment"`
	Dir         string   `json:"dir" yaml:"dir" toml:"dir"`
	ReportName  string   `json:"report_name" yaml:"report_name" toml:"report_name"`
	ReportType  []string `json:"report_type" yaml:"report_type" toml:"report_type"`
	Timestamp   bool     `json:"timestamp" yaml:"timestamp" toml:"timestamp"`
	TopTypes    *int     `json:"top_types" yaml:"top_types" toml:"top_types"`
	Warehouse   string   `json:"warehouse" yaml:"warehouse" toml:"warehouse"`
	S3Bucket    string   `json:"s3_bucket" yaml:"s3_bucket" toml:"s3_bucket"`
	S3Prefix    string   `json:"s3_prefix" yaml:"s3_prefix" toml:"s3_prefix"`
	AWSProfile  string   `json:"aws_profile" yaml:"aws_profile" toml:"aws_profile"`
	AWSRegion   string   `json:"aws_region" yaml:"aws_region" toml:"aws_region"`
	Quiet       bool     `json:"quiet" yaml:"quiet" toml:"quiet"`
}
