package ops

var CLI struct {
	Ls struct {
		Files []string `arg:"" help:"Files to scan"`
		Stats bool     `help:"Print reader metrics" short:"s"`
		Quiet bool     `help:"Do not write progress to stdout" short:"q"`
	} `cmd:"" aliases:"l,list" help:"List buckets without decompressing"`
	Cat struct {
		File   string `optional:"" arg:"" type:"existingfile"`
		Output string `help:"Output filename; use '-' for stdout" short:"o" default:"-"`
		Force  bool   `help:"Force overwrite of existing file" short:"f"`
		Skip   int    `help:"Records to skip before output" short:"s"`
		Count  int    `help:"Records to output [-1 all]" default:"-1" short:"n"`
		Raw    bool   `help:"Write length prefixed record frames instead of a hex dump" short:"r"`
	} `cmd:"" aliases:"c" help:"Print records"`
	Verify struct {
		File  string `optional:"" arg:"" type:"existingfile"`
		Quiet bool   `help:"Do not write progress to stdout" short:"q"`
	} `cmd:"" aliases:"v,ver" help:"Decode every bucket and digest all records"`

	Cpus          int    `help:"Files scanned concurrently [-1 auto]" default:"-1" short:"c"`
	LogLevel      string `help:"Log level" enum:"debug,info,warn,error" default:"warn"`
	MaxBucketSize uint64 `help:"Largest bucket payload accepted, in bytes" default:"1073741824"`
}
