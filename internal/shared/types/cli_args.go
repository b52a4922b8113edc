package types

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile  string
	DataDir     string
	Clients     string
	Revenue     string
	SMS         string
	Appointment string
	Dir         string
	ReportName  string
	ReportType  []string
	Timestamp   bool
	TopTypes    int
	Warehouse   string
	S3Bucket    string
	S3Prefix    string
	AWSProfile  string
	AWSRegion   string
	Quiet       bool

	// Changed lists the flags explicitly set on the command line; those win
	// over values read from the config file.
	Changed map[string]bool
}

// OutputTarget tells exporters where and how to name report files.
type OutputTarget struct {
	Dir       string
	Prefix    string
	Timestamp bool
}

// PublishTarget describes where exported files are uploaded.
type PublishTarget struct {
	Bucket  string
	Prefix  string
	Profile string
	Region  string
}
