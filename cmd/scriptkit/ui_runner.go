package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"scriptkit/internal/buildpipeline"
	"scriptkit/internal/ui"
)

type checkOutcome struct {
	result *buildpipeline.CheckResult
	err    error
}

func runCheckWithUI(ctx context.Context, title string, req buildpipeline.CheckRequest) (*buildpipeline.CheckResult, error) {
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		req.Progress = buildpipeline.ChannelSink{Ch: events}
		res, err := buildpipeline.Check(ctx, req)
		outcomeCh <- checkOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, req.Files, buildpipeline.StageTranspile, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// the view may quit early; keep the pipeline from blocking on a full channel
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
