// Package rotation re-encrypts a set of inventory containers from one
// password to another, one file at a time, recording an outcome per file.
// Excel encrypted workbooks found among them are upgraded to native
// containers on the way.
package rotation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/invkeeper/internal/common"
	"github.com/dmitrijs2005/invkeeper/internal/filex"
	"github.com/dmitrijs2005/invkeeper/internal/logging"
	"github.com/dmitrijs2005/invkeeper/internal/models"
	"github.com/dmitrijs2005/invkeeper/internal/workbook"
)

// Codec is the subset of container.Codec the orchestrator needs.
type Codec interface {
	Encrypt(payload []byte, password string) ([]byte, error)
	Decrypt(raw []byte, password string) ([]byte, error)
}

// Progress is emitted once per file before it is processed. Index is 1-based.
type Progress struct {
	Index    int
	Total    int
	FileName string
}

type ProgressFunc func(Progress)

// Orchestrator runs rotation batches. Files are processed sequentially.
type Orchestrator struct {
	Codec  Codec
	Logger logging.Logger

	// Replace writes the new container. Defaults to filex.Replace.
	Replace func(dest string, data []byte) error
	// Protect runs after a successful replace; its error is only logged.
	// Defaults to filex.Protect.
	Protect func(path string) error

	// Throttle is slept between files.
	Throttle time.Duration
	// AcceptAlreadyRotated counts a file that already opens with the new
	// password as succeeded, leaving it untouched.
	AcceptAlreadyRotated bool
}

func New(codec Codec, log logging.Logger) *Orchestrator {
	return &Orchestrator{
		Codec:   codec,
		Logger:  log,
		Replace: filex.Replace,
		Protect: filex.Protect,
	}
}

// Run moves every file from oldPassword to newPassword. Per-file failures
// are recorded in the summary and never stop the batch.
//
// When ctx is cancelled the file in progress finishes, the remaining files
// are recorded as failed with reason "cancelled", and Run returns the
// summary together with common.ErrCancelled.
func (o *Orchestrator) Run(ctx context.Context, files []models.DiscoveredFile, oldPassword, newPassword string, onProgress ProgressFunc) (models.Summary, error) {
	sum := models.Summary{Total: len(files), Outcomes: make([]models.Outcome, 0, len(files))}

	if newPassword == "" {
		return sum, common.ErrEmptyPassword
	}

	for i, f := range files {
		if ctx.Err() != nil {
			for _, rest := range files[i:] {
				sum.Add(models.Outcome{FileName: rest.Name, Reason: "cancelled"})
			}
			sum.Cancelled = true
			o.Logger.Warn(ctx, "rotation cancelled", "remaining", len(files)-i)
			return sum, fmt.Errorf("%w: %v", common.ErrCancelled, ctx.Err())
		}

		if onProgress != nil {
			onProgress(Progress{Index: i + 1, Total: len(files), FileName: f.Name})
		}

		out := o.rotateFile(ctx, f, oldPassword, newPassword)
		sum.Add(out)

		if out.Succeeded {
			o.Logger.Info(ctx, "file rotated", "file", f.Name)
		} else {
			o.Logger.Warn(ctx, "file not rotated", "file", f.Name, "reason", out.Reason)
		}

		if o.Throttle > 0 && i < len(files)-1 {
			select {
			case <-ctx.Done():
			case <-time.After(o.Throttle):
			}
		}
	}

	o.Logger.Info(ctx, "rotation finished", "summary", sum.String())
	return sum, nil
}

func (o *Orchestrator) rotateFile(ctx context.Context, f models.DiscoveredFile, oldPassword, newPassword string) models.Outcome {
	out := models.Outcome{FileName: f.Name}

	raw, err := os.ReadFile(f.Path)
	if err != nil {
		out.Reason = fmt.Errorf("%w: %v", common.ErrIO, err).Error()
		return out
	}

	payload, err := o.open(raw, oldPassword)
	if errors.Is(err, common.ErrWrongPassword) && o.AcceptAlreadyRotated {
		if _, again := o.open(raw, newPassword); again == nil {
			out.Succeeded = true
			return out
		}
	}
	if err != nil {
		out.Reason = reason(err)
		return out
	}
	defer common.WipeByteArray(payload)

	sealed, err := o.Codec.Encrypt(payload, newPassword)
	if err != nil {
		out.Reason = reason(err)
		return out
	}

	if err := o.Replace(f.Path, sealed); err != nil {
		out.Reason = reason(err)
		return out
	}

	if o.Protect != nil {
		if err := o.Protect(f.Path); err != nil {
			o.Logger.Debug(ctx, "protect failed", "file", f.Name, "error", err)
		}
	}

	out.Succeeded = true
	return out
}

// open decrypts a native container, or an Excel encrypted workbook as written
// by earlier releases. Either way the file is rewritten as a native container.
func (o *Orchestrator) open(raw []byte, password string) ([]byte, error) {
	if workbook.IsOLE(raw) {
		return workbook.DecryptOOXML(raw, password)
	}
	return o.Codec.Decrypt(raw, password)
}

func reason(err error) string {
	switch {
	case errors.Is(err, common.ErrWrongPassword):
		return common.ErrWrongPassword.Error()
	case errors.Is(err, common.ErrCorrupt):
		return common.ErrCorrupt.Error()
	default:
		return err.Error()
	}
}
