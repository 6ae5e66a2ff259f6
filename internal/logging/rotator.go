package logging

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// LogFileName is the active log file inside the log directory.
const LogFileName = "cardex.log"

const (
	logDirPerm  = 0o755
	logFilePerm = 0o600

	defaultMaxSizeMB = 10
	bytesPerMB       = 1024 * 1024

	backupTimeLayout = "20060102T150405.000"
	gzipSuffix       = ".gz"
)

// LogFile is the active log or one rotated backup.
type LogFile struct {
	Name       string
	Path       string
	Size       int64
	ModTime    time.Time
	Active     bool
	Compressed bool
}

// BackupName returns the file name a backup rotated at t gets.
func BackupName(t time.Time) string {
	return LogFileName + "." + t.Format(backupTimeLayout)
}

// ListLogFiles returns the log files in dir: the active file first, then
// backups newest first. A missing directory yields no files.
func ListLogFiles(dir string) ([]LogFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read log directory: %w", err)
	}

	var files []LogFile
	for _, entry := range entries {
		name := entry.Name()
		active := name == LogFileName
		if entry.IsDir() || (!active && !strings.HasPrefix(name, LogFileName+".")) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, LogFile{
			Name:       name,
			Path:       filepath.Join(dir, name),
			Size:       info.Size(),
			ModTime:    info.ModTime(),
			Active:     active,
			Compressed: strings.HasSuffix(name, gzipSuffix),
		})
	}

	sort.SliceStable(files, func(i, j int) bool {
		if files[i].Active != files[j].Active {
			return files[i].Active
		}
		return files[i].ModTime.After(files[j].ModTime)
	})
	return files, nil
}

// RemoveLogFiles deletes the backups in files, and the active file too when
// includeActive is set. report, if non-nil, is called once per attempted
// removal. It returns how many files were removed.
func RemoveLogFiles(files []LogFile, includeActive bool, report func(LogFile, error)) int {
	var removed int
	for _, f := range files {
		if f.Active && !includeActive {
			continue
		}
		err := os.Remove(f.Path)
		if err == nil {
			removed++
		}
		if report != nil {
			report(f, err)
		}
	}
	return removed
}

// pruneBackups drops backups older than maxAge, then the oldest ones
// beyond maxBackups. Zero disables either limit.
func pruneBackups(dir string, maxBackups int, maxAge time.Duration, now time.Time) error {
	files, err := ListLogFiles(dir)
	if err != nil {
		return err
	}

	var keep, drop []LogFile
	for _, f := range files {
		switch {
		case f.Active:
		case maxAge > 0 && now.Sub(f.ModTime) > maxAge:
			drop = append(drop, f)
		default:
			keep = append(keep, f)
		}
	}
	// keep is newest first.
	if maxBackups > 0 && len(keep) > maxBackups {
		drop = append(drop, keep[maxBackups:]...)
	}

	var errs []error
	RemoveLogFiles(drop, false, func(f LogFile, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("remove old log %s: %w", f.Name, err))
		}
	})
	return errors.Join(errs...)
}

// LogRotator is an io.Writer over LogFileName that rolls the file into a
// timestamped backup once it would grow past the configured size.
// Failures of backup housekeeping do not fail writes; they are reported
// by Close.
type LogRotator struct {
	mu         sync.Mutex
	dir        string
	maxSize    int64
	maxBackups int
	maxAge     time.Duration
	compress   bool
	now        func() time.Time

	file        *os.File
	size        int64
	deferredErr error
}

// NewLogRotator creates cfg.LogDir if needed and opens the active log
// file for appending. A non-positive MaxSizeMB falls back to 10MB.
func NewLogRotator(cfg FileConfig) (*LogRotator, error) {
	if cfg.LogDir == "" {
		return nil, errors.New("log rotator: empty log dir")
	}
	if err := os.MkdirAll(cfg.LogDir, logDirPerm); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	maxSizeMB := cfg.MaxSizeMB
	if maxSizeMB <= 0 {
		maxSizeMB = defaultMaxSizeMB
	}
	r := &LogRotator{
		dir:        cfg.LogDir,
		maxSize:    int64(maxSizeMB) * bytesPerMB,
		maxBackups: cfg.MaxBackups,
		maxAge:     time.Duration(cfg.MaxAgeDays) * 24 * time.Hour,
		compress:   cfg.Compress,
		now:        time.Now,
	}
	if err := r.open(); err != nil {
		return nil, err
	}
	return r, nil
}

// Path returns the active log file path.
func (r *LogRotator) Path() string {
	return filepath.Join(r.dir, LogFileName)
}

func (r *LogRotator) open() error {
	file, err := os.OpenFile(r.Path(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePerm)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("stat log file: %w", err)
	}
	r.file = file
	r.size = info.Size()
	return nil
}

// Write implements io.Writer.
func (r *LogRotator) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		if err := r.open(); err != nil {
			return 0, err
		}
	}
	// A record larger than maxSize still lands in a fresh file.
	if r.size > 0 && r.size+int64(len(p)) > r.maxSize {
		if err := r.rotate(); err != nil {
			return 0, err
		}
	}

	n, err := r.file.Write(p)
	r.size += int64(n)
	return n, err
}

// rotate moves the active file to a backup and reopens a fresh one.
func (r *LogRotator) rotate() error {
	if err := r.file.Close(); err != nil {
		r.recordErr(fmt.Errorf("close log file: %w", err))
	}
	r.file = nil

	backup := filepath.Join(r.dir, BackupName(r.now()))
	if err := os.Rename(r.Path(), backup); err != nil {
		return fmt.Errorf("rotate log file: %w", err)
	}
	if r.compress {
		r.recordErr(gzipAndRemove(backup))
	}
	r.recordErr(pruneBackups(r.dir, r.maxBackups, r.maxAge, r.now()))

	return r.open()
}

func (r *LogRotator) recordErr(err error) {
	if err != nil {
		r.deferredErr = errors.Join(r.deferredErr, err)
	}
}

// Close closes the active file and reports housekeeping failures seen
// since the rotator was opened.
func (r *LogRotator) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var closeErr error
	if r.file != nil {
		closeErr = r.file.Close()
		r.file = nil
	}
	return errors.Join(closeErr, r.deferredErr)
}

// gzipAndRemove replaces path with path.gz.
func gzipAndRemove(path string) error {
	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("compress log: %w", err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(path+gzipSuffix, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, logFilePerm)
	if err != nil {
		return fmt.Errorf("compress log: %w", err)
	}

	zw := gzip.NewWriter(out)
	_, copyErr := io.Copy(zw, in)
	if err := errors.Join(copyErr, zw.Close(), out.Close()); err != nil {
		_ = os.Remove(path + gzipSuffix)
		return fmt.Errorf("compress log %s: %w", filepath.Base(path), err)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove uncompressed log: %w", err)
	}
	return nil
}
