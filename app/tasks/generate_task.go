package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dpogorelov/strapi-sitemap/app/generate"
	"github.com/dpogorelov/strapi-sitemap/app/sitemap"
)

type GenerateTask struct {
	Task
	runner *generate.Runner
	holder *sitemap.Holder
}

func NewGenerateTask(runner *generate.Runner, holder *sitemap.Holder) *GenerateTask {
	return &GenerateTask{
		Task:   NewTask(TaskTypeGenerate),
		runner: runner,
		holder: holder,
	}
}

func (t *GenerateTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	artifacts, err := t.runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	t.holder.Set(artifacts)

	slog.Info("Task completed",
		"type", "Generate",
		"duration", t.GetDuration(),
		"posts", artifacts.PostCount)

	return nil
}
