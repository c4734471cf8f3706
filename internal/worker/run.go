package worker

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"colfm/internal/errors"
	"colfm/internal/log"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
)

// Event is one message from a running job. A job sends any number of
// progress events followed by exactly one event with Done set.
type Event struct {
	JobID   string
	Done    bool
	Message string
	Err     error
	// Touched is set on the final event.
	Touched []string
}

// errExists is wrapped when a destination is taken and neither overwrite nor
// skip_exist was requested.
var errExists = os.ErrExist

// errSkip is returned by resolve when skip_exist leaves a destination alone.
var errSkip = errors.New("destination exists, skipped")

type runner struct {
	fs      afero.Fs
	job     *Job
	events  chan<- Event
	bytes   uint64
	items   int
	skipped int
}

// Run performs the job on fs, reporting to events. It does not modify job;
// the receiver of the final event calls Finish. The first error stops the job
// and whatever was already done stays done.
func Run(fs afero.Fs, job *Job, events chan<- Event) {
	r := &runner{fs: fs, job: job, events: events}
	logger := log.LogWithFields(log.F("job", job.ID), log.F("kind", job.Kind.String()))
	logger.Infof("started %s", job)

	err := r.run()
	msg := r.summary()
	if err != nil {
		msg = fmt.Sprintf("%s failed: %v", job, err)
		log.LogWithError(err).With(log.F("job", job.ID)).Error("job failed")
	} else {
		logger.Info(msg)
	}
	events <- Event{
		JobID:   job.ID,
		Done:    true,
		Message: msg,
		Err:     err,
		Touched: job.Touched(),
	}
}

func (r *runner) progress(i int, src string) {
	r.events <- Event{
		JobID:   r.job.ID,
		Message: fmt.Sprintf("%s %d/%d: %s", r.job.Kind, i+1, len(r.job.Sources), filepath.Base(src)),
	}
}

func (r *runner) run() error {
	if r.job.Kind != KindDelete {
		info, err := r.fs.Stat(r.job.Dest)
		if err != nil {
			return errors.NewFileError("cannot access destination", r.job.Dest, errors.IO, err)
		}
		if !info.IsDir() {
			return errors.NewFileError("destination is not a directory", r.job.Dest, errors.IOInvalidData, nil)
		}
	}

	for i, src := range r.job.Sources {
		r.progress(i, src)
		var err error
		switch r.job.Kind {
		case KindCopy:
			err = r.copyInto(src)
		case KindMove:
			err = r.moveInto(src)
		case KindDelete:
			err = r.remove(src)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *runner) summary() string {
	verb := map[Kind]string{KindCopy: "copied", KindMove: "moved", KindDelete: "deleted"}[r.job.Kind]
	noun := "items"
	if r.items == 1 {
		noun = "item"
	}
	if r.job.Kind == KindDelete {
		return fmt.Sprintf("%s %d %s", verb, r.items, noun)
	}
	msg := fmt.Sprintf("%s %d %s (%s) to %s", verb, r.items, noun, humanize.Bytes(r.bytes), r.job.Dest)
	if r.skipped > 0 {
		msg += fmt.Sprintf(", %d skipped", r.skipped)
	}
	return msg
}

// isWithin reports whether path is dir or lies below it.
func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func (r *runner) lstat(path string) (os.FileInfo, error) {
	if l, ok := r.fs.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(path)
		return info, err
	}
	return r.fs.Stat(path)
}

// resolve applies the collision policy to dst and returns what is there now,
// or nil when dst is free. It returns errSkip when dst must be left alone.
func (r *runner) resolve(dst string) (os.FileInfo, error) {
	info, err := r.lstat(dst)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewFileError("cannot access destination", dst, errors.IO, err)
	}
	switch {
	case r.job.Options.Overwrite:
		return info, nil
	case r.job.Options.SkipExist:
		r.skipped++
		log.LogWithFields(log.F("job", r.job.ID), log.F("path", dst)).Debug("skipping existing destination")
		return info, errSkip
	default:
		return info, errors.NewFileError("destination exists", dst, errors.IO, errExists)
	}
}

func (r *runner) copyInto(src string) error {
	dst := filepath.Join(r.job.Dest, filepath.Base(src))
	if dst == src {
		if r.job.Options.SkipExist && !r.job.Options.Overwrite {
			r.skipped++
			return nil
		}
		return errors.NewFileError("source and destination are the same", src, errors.IOInvalidData, nil)
	}
	if isWithin(dst, src) {
		return errors.NewFileError("cannot copy a directory into itself", src, errors.IOInvalidData, nil)
	}
	if err := r.copyPath(src, dst); err != nil {
		if err == errSkip {
			return nil
		}
		return err
	}
	r.items++
	return nil
}

func (r *runner) copyPath(src, dst string) error {
	info, err := r.lstat(src)
	if err != nil {
		return errors.NewFileError("cannot access source", src, errors.IO, err)
	}

	existing, err := r.resolve(dst)
	if err != nil {
		return err
	}
	if existing != nil && !(info.IsDir() && existing.IsDir()) {
		if err := r.fs.RemoveAll(dst); err != nil {
			return errors.NewFileError("cannot replace destination", dst, errors.IO, err)
		}
	}

	switch {
	case info.IsDir():
		return r.copyDir(src, dst, info)
	case info.Mode()&os.ModeSymlink != 0:
		return r.copySymlink(src, dst)
	default:
		return r.copyFile(src, dst, info)
	}
}

func (r *runner) copyDir(src, dst string, info os.FileInfo) error {
	if err := r.fs.MkdirAll(dst, info.Mode().Perm()); err != nil {
		return errors.NewFileError("cannot create directory", dst, errors.IO, err)
	}
	children, err := afero.ReadDir(r.fs, src)
	if err != nil {
		return errors.NewFileError("cannot read directory", src, errors.IO, err)
	}
	for _, child := range children {
		err := r.copyPath(filepath.Join(src, child.Name()), filepath.Join(dst, child.Name()))
		if err != nil && err != errSkip {
			return err
		}
	}
	return nil
}

func (r *runner) copySymlink(src, dst string) error {
	reader, ok := r.fs.(afero.LinkReader)
	linker, ok2 := r.fs.(afero.Linker)
	if !ok || !ok2 {
		return errors.NewFileError("symlinks not supported", src, errors.IO, nil)
	}
	target, err := reader.ReadlinkIfPossible(src)
	if err != nil {
		return errors.NewFileError("cannot read link", src, errors.IO, err)
	}
	if err := linker.SymlinkIfPossible(target, dst); err != nil {
		return errors.NewFileError("cannot create link", dst, errors.IO, err)
	}
	return nil
}

func (r *runner) copyFile(src, dst string, info os.FileInfo) error {
	in, err := r.fs.Open(src)
	if err != nil {
		return errors.NewFileError("cannot open source", src, errors.IO, err)
	}
	defer in.Close()

	out, err := r.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return errors.NewFileError("cannot create file", dst, errors.IO, err)
	}
	n, err := io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return errors.NewFileError("copy failed", dst, errors.IO, err)
	}
	r.bytes += uint64(n)
	_ = r.fs.Chtimes(dst, info.ModTime(), info.ModTime())
	return nil
}

func (r *runner) moveInto(src string) error {
	dst := filepath.Join(r.job.Dest, filepath.Base(src))
	if dst == src {
		r.items++
		return nil
	}
	if isWithin(dst, src) {
		return errors.NewFileError("cannot move a directory into itself", src, errors.IOInvalidData, nil)
	}
	info, err := r.lstat(src)
	if err != nil {
		return errors.NewFileError("cannot access source", src, errors.IO, err)
	}

	existing, err := r.resolve(dst)
	if err == errSkip {
		return nil
	}
	if err != nil {
		return err
	}
	if existing != nil {
		if info.IsDir() && existing.IsDir() {
			// Merge into the existing directory.
			return r.copyThenRemove(src, dst)
		}
		if err := r.fs.RemoveAll(dst); err != nil {
			return errors.NewFileError("cannot replace destination", dst, errors.IO, err)
		}
	}

	if err := r.fs.Rename(src, dst); err != nil {
		if errors.Is(err, syscall.EXDEV) {
			log.LogWithFields(log.F("job", r.job.ID), log.F("path", src)).Debug("cross-device move, copying")
			return r.copyThenRemove(src, dst)
		}
		return errors.NewFileError("cannot move", src, errors.IO, err)
	}
	if !info.IsDir() {
		r.bytes += uint64(info.Size())
	}
	r.items++
	return nil
}

func (r *runner) copyThenRemove(src, dst string) error {
	if err := r.copyPath(src, dst); err != nil {
		return err
	}
	if err := r.fs.RemoveAll(src); err != nil {
		return errors.NewFileError("cannot remove source", src, errors.IO, err)
	}
	r.items++
	return nil
}

func (r *runner) remove(src string) error {
	if _, err := r.lstat(src); err != nil {
		return errors.NewFileError("cannot access", src, errors.IO, err)
	}
	if err := r.fs.RemoveAll(src); err != nil {
		return errors.NewFileError("cannot delete", src, errors.IO, err)
	}
	r.items++
	return nil
}
