package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/amterp/lanes/internal/service"
	"github.com/amterp/ra"
)

func registerDoctor(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("doctor")
	cmd.SetDescription("Check stored boards for consistency issues. Exit 0 if healthy, 1 if errors found.")

	ctx.DoctorFix, _ = ra.NewBool("fix").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Apply automatic fixes for issues with deterministic solutions").
		Register(cmd)

	ctx.DoctorJson, _ = ra.NewBool("json").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Output the report as JSON").
		Register(cmd)

	ctx.DoctorUsed, _ = parent.RegisterCmd(cmd)
}

func runDoctor(fix bool, jsonOutput bool) {
	app := mustApp(false)
	defer app.Close()

	ctx := context.Background()

	report, err := app.Doctor.Diagnose(ctx)
	if err != nil {
		Fatal(err)
	}

	if fix && len(report.Issues) > 0 {
		report, err = app.Doctor.Fix(ctx, report)
		if err != nil {
			Fatal(err)
		}
	}

	if jsonOutput {
		if err := printJson(report); err != nil {
			Fatal(err)
		}
	} else {
		printDoctorReport(report, fix)
	}

	if report.HasErrors() {
		app.Close()
		os.Exit(1)
	}
}

func printDoctorReport(report *service.DiagnosticReport, didFix bool) {
	fmt.Printf("Checking %s in %s storage...\n\n", RenderBold(fmt.Sprintf("%q", report.Key)), report.Backend)

	if report.Empty {
		PrintInfo("Nothing stored yet")
		return
	}

	for _, board := range report.Boards {
		fmt.Printf("Board %s %s\n", RenderBold(fmt.Sprintf("%q", board.Name)), RenderID(board.ID))
		fmt.Printf("  Cards: %d, Tags: %d\n", board.Cards, board.Tags)
	}
	if len(report.Boards) > 0 {
		fmt.Println()
	}

	if didFix && report.Summary.Fixed > 0 {
		PrintSuccess("Fixed %d issue(s)", report.Summary.Fixed)
		fmt.Println()
	}

	if len(report.Issues) == 0 {
		if didFix && report.Summary.Fixed > 0 {
			PrintSuccess("All issues resolved")
		} else {
			PrintSuccess("No issues found")
		}
		return
	}

	// Errors before warnings
	for _, issue := range report.Issues {
		if issue.Severity == service.SeverityError {
			printIssue(issue)
		}
	}
	for _, issue := range report.Issues {
		if issue.Severity != service.SeverityError {
			printIssue(issue)
		}
	}

	fmt.Println()
	var parts []string
	if report.Summary.Errors > 0 {
		parts = append(parts, StyleError.Render(fmt.Sprintf("%d error(s)", report.Summary.Errors)))
	}
	if report.Summary.Warnings > 0 {
		parts = append(parts, StyleWarning.Render(fmt.Sprintf("%d warning(s)", report.Summary.Warnings)))
	}
	if didFix && report.Summary.Fixed > 0 {
		parts = append(parts, StyleSuccess.Render(fmt.Sprintf("%d fixed", report.Summary.Fixed)))
	}
	if report.Summary.FixFailed > 0 {
		parts = append(parts, StyleError.Render(fmt.Sprintf("%d fix failed", report.Summary.FixFailed)))
	}
	fmt.Printf("Summary: %s\n", strings.Join(parts, ", "))

	if !didFix {
		for _, issue := range report.Issues {
			if issue.Fixable {
				fmt.Println()
				PrintInfo("Run 'lanes doctor --fix' to apply automatic fixes")
				break
			}
		}
	}
}

func printIssue(issue service.Issue) {
	style, icon := StyleWarning, IconWarning
	if issue.Severity == service.SeverityError {
		style, icon = StyleError, IconError
	}

	location := ""
	if issue.BoardID != "" {
		location = " " + RenderMuted(issue.BoardID)
		if issue.CardID != "" {
			location += "/" + RenderID(issue.CardID)
		}
	}

	fmt.Printf("%s %s%s %s\n", style.Render(icon), style.Render("["+issue.Code+"]"), location, issue.Message)

	switch {
	case issue.FixError != "":
		fmt.Printf("  %s Fix failed: %s\n", StyleError.Render(IconInfo), issue.FixError)
	case issue.FixAction != "" && issue.Fixable:
		fmt.Printf("  %s Fix: %s\n", RenderMuted(IconInfo), issue.FixAction)
	case issue.FixAction != "":
		fmt.Printf("  %s %s\n", RenderMuted(IconInfo), issue.FixAction)
	}
}
