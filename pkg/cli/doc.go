/*
Package cli provides command-line interface utilities for masolint.

Output Formatting:

Validation results are collected into a Report and written in text, JSON
or CSV form:

	report := cli.NewReport(files)
	formatter := cli.NewFormatter(cli.FormatText)
	if err := formatter.FormatTo(os.Stdout, report); err != nil {
		return err
	}
	if report.Failed(strict) {
		return cli.NewCommandError("validate", cli.ErrValidationFailed)
	}

Text output shows each diagnostic with the surrounding source lines and a
caret under the reported range.

Exit Codes:

ExitCode maps command errors to 0 (success), 1 (validation failed) or 2
(any other failure).

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
