package generation

import "strconv"

// buildArgs returns the generator argument vector. The topic goes last, after "--", so a topic such as
// "-growth" is never parsed as an option.
func buildArgs(script string, req Request, output string, format Format) []string {
	args := make([]string, 0, 22)
	if script != "" {
		args = append(args, script)
	}
	args = append(args,
		"--presentation",
		"--type", req.Type,
		"--audience", req.Audience,
		"--duration", strconv.Itoa(int(req.Duration)),
		"--tone", req.Tone,
		"--industry", req.Industry,
		"--output", output,
		"--presentation-format", string(format),
	)
	if req.Author != "" {
		args = append(args, "--author", req.Author)
	}
	return append(args, "--", req.Topic)
}

// renderArgs returns the template renderer argument vector. The deck itself is written to stdin.
func renderArgs(script, template, output string) []string {
	args := make([]string, 0, 6)
	if script != "" {
		args = append(args, script)
	}
	return append(args, "--template", template, "--output", output, "--input", "-")
}
