package core

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/inovacc/patchtracker/internal/application"
	"github.com/inovacc/patchtracker/internal/model"
	"github.com/spf13/afero"
)

const trackingFileExt = ".yaml"

// InputStyle is the way an add invocation supplies its tracking records
type InputStyle int

const (
	StyleFlags InputStyle = iota // fields given directly as flags
	StyleFile                    // one tracking file
	StyleDir                     // a directory of tracking files
)

func (s InputStyle) String() string {
	switch s {
	case StyleFlags:
		return "flags"
	case StyleFile:
		return "file"
	case StyleDir:
		return "dir"
	default:
		return "unknown"
	}
}

// AddInput holds everything an add invocation may carry, before its style is resolved
type AddInput struct {
	Request model.TrackingRequest
	File    string
	Dir     string
}

// ResolveInputStyle picks the single input style of an add invocation.
// Indicating two or more styles at once is an error; indicating none resolves to StyleFlags.
func ResolveInputStyle(in AddInput) (InputStyle, error) {
	var indicated []InputStyle

	for _, name := range model.RequiredTrackingFields {
		if in.Request.Field(name) != "" {
			indicated = append(indicated, StyleFlags)
			break
		}
	}

	if in.File != "" {
		indicated = append(indicated, StyleFile)
	}

	if in.Dir != "" {
		indicated = append(indicated, StyleDir)
	}

	switch len(indicated) {
	case 0:
		return StyleFlags, nil
	case 1:
		return indicated[0], nil
	default:
		return StyleFlags, &ValidationError{
			Message:   fmt.Sprintf("%s add: error: mix different usage style", application.AppName),
			ShowUsage: true,
		}
	}
}

// Record is a parsed tracking file
type Record struct {
	Path   string
	Fields map[string]string
}

// Set stores a field, replacing any value parsed from the file
func (r *Record) Set(key, value string) {
	if r.Fields == nil {
		r.Fields = make(map[string]string)
	}

	r.Fields[key] = value
}

// Inject copies the invocation's common parameters into the record
func (r *Record) Inject(server string, creds model.Credentials) {
	r.Set(model.FieldServer, server)
	r.Set(model.FieldUser, creds.User)
	r.Set(model.FieldPassword, creds.Password)
}

// Request returns the tracking request described by the record
func (r *Record) Request() model.TrackingRequest {
	return model.TrackingRequest{
		Repo:           r.Fields[model.FieldRepo],
		Branch:         r.Fields[model.FieldBranch],
		SCMRepo:        r.Fields[model.FieldSCMRepo],
		SCMBranch:      r.Fields[model.FieldSCMBranch],
		VersionControl: r.Fields[model.FieldVersionControl],
		Enabled:        r.Fields[model.FieldEnabled],
	}
}

// Credentials returns the credentials stored in the record
func (r *Record) Credentials() model.Credentials {
	return model.Credentials{
		User:     r.Fields[model.FieldUser],
		Password: r.Fields[model.FieldPassword],
	}
}

// ParseRecord reads "key: value" lines. The key is everything before the first
// colon; the rest of the line, trimmed of whitespace and of colons at either end,
// is the value. Lines without a colon are ignored.
func ParseRecord(r io.Reader) (map[string]string, error) {
	fields := make(map[string]string)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}

		value = strings.Trim(strings.TrimSpace(value), ":")
		fields[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tracking file: %w", err)
	}

	return fields, nil
}

// LoadRecord reads one tracking file from fs
func LoadRecord(fs afero.Fs, path string) (*Record, error) {
	isFile, err := afero.Exists(fs, path)
	if err == nil && isFile {
		isDir, dirErr := afero.IsDir(fs, path)
		isFile = dirErr == nil && !isDir
	}

	if !isFile {
		return nil, &InputFormatError{
			Path:    path,
			Message: fmt.Sprintf("yaml path error. Params error in %s", path),
		}
	}

	if filepath.Ext(path) != trackingFileExt {
		return nil, &InputFormatError{
			Path:    path,
			Message: fmt.Sprintf("Please input yaml file. Error in %s", path),
		}
	}

	f, err := fs.Open(path)
	if err != nil {
		return nil, &InputFormatError{
			Path:    path,
			Message: fmt.Sprintf("yaml path error. Params error in %s: %v", path, err),
		}
	}

	defer func() {
		_ = f.Close()
	}()

	fields, err := ParseRecord(f)
	if err != nil {
		return nil, &InputFormatError{Path: path, Message: fmt.Sprintf("%v. Error in %s", err, path)}
	}

	return &Record{Path: path, Fields: fields}, nil
}

// DirEntry is one entry of a tracking directory. Err is set for entries that cannot be loaded.
type DirEntry struct {
	Name string
	Path string
	Err  error
}

// ListTrackingDir lists a directory of tracking files in directory-listing order.
// Entries that are not .yaml files carry an InputFormatError so callers can report them and move on.
func ListTrackingDir(fs afero.Fs, dir string) ([]DirEntry, error) {
	isDir, err := afero.IsDir(fs, dir)
	if err != nil || !isDir {
		return nil, &InputFormatError{
			Path:    dir,
			Message: fmt.Sprintf("error: dir path error. Params error in %s", dir),
		}
	}

	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, &InputFormatError{
			Path:    dir,
			Message: fmt.Sprintf("error: dir path error. Params error in %s: %v", dir, err),
		}
	}

	if len(infos) == 0 {
		return nil, &InputFormatError{Path: dir, Message: "error: dir path empty"}
	}

	entries := make([]DirEntry, 0, len(infos))

	for _, info := range infos {
		entry := DirEntry{
			Name: info.Name(),
			Path: filepath.Join(dir, info.Name()),
		}

		if info.IsDir() || filepath.Ext(info.Name()) != trackingFileExt {
			entry.Err = &InputFormatError{
				Path:    entry.Path,
				Message: fmt.Sprintf("Please input yaml file. Error in %s", info.Name()),
			}
		}

		entries = append(entries, entry)
	}

	return entries, nil
}
