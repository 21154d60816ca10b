// Package ui renders end-of-run reports to the terminal. A structured
// report is always printed, even on partial failure; exit status is the
// caller's concern.
package ui

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pterm/pterm"

	"github.com/glyphkit/glyphkit/pkg/build"
	"github.com/glyphkit/glyphkit/pkg/syncer"
)

// RenderSyncReport prints per-brand and aggregate sync counts.
func RenderSyncReport(w io.Writer, report *syncer.Report) {
	title := "Sync"
	if report.DryRun {
		title = "Sync (preview)"
	}
	pterm.DefaultSection.WithWriter(w).Println(title)

	data := pterm.TableData{{"Brand", "Added", "Updated", "Removed", "Errors"}}
	for _, brand := range report.Brands {
		data = append(data, []string{
			brand.Brand,
			strconv.Itoa(brand.Added),
			strconv.Itoa(brand.Updated),
			strconv.Itoa(brand.Removed),
			strconv.Itoa(len(brand.Errors)),
		})
	}
	_ = pterm.DefaultTable.WithWriter(w).WithHasHeader().WithData(data).Render()

	for _, itemErr := range report.Errors {
		pterm.Error.WithWriter(w).Printfln("%s/%s: %s", itemErr.Brand, itemErr.Icon, itemErr.Message)
	}

	summary := fmt.Sprintf("%d added, %d updated, %d removed, %d errors in %s",
		report.Added, report.Updated, report.Removed, len(report.Errors), report.Duration.Round(time.Millisecond))
	if report.OK() {
		pterm.Success.WithWriter(w).Println(summary)
	} else {
		pterm.Warning.WithWriter(w).Println(summary)
	}
}

// RenderBuildReport prints per-brand build status and the aggregate line.
func RenderBuildReport(w io.Writer, report *build.Report) {
	pterm.DefaultSection.WithWriter(w).Println("Build")

	data := pterm.TableData{{"Brand", "Status", "Icons", "Files"}}
	for _, result := range report.Results {
		status := result.Status
		if result.Err != nil {
			status = status + ": " + result.Err.Error()
		}
		data = append(data, []string{
			result.Brand,
			status,
			strconv.Itoa(result.IconCount),
			strconv.Itoa(len(result.Files)),
		})
	}
	_ = pterm.DefaultTable.WithWriter(w).WithHasHeader().WithData(data).Render()

	summary := fmt.Sprintf("%d brands built, %d failed, %d icons in %s",
		report.Built, report.Failed, report.TotalIcons, report.Duration.Round(time.Millisecond))
	if report.OK() {
		pterm.Success.WithWriter(w).Println(summary)
	} else {
		pterm.Warning.WithWriter(w).Println(summary)
	}
}
