// file: cmd/inspect.go
// version: 1.0.0
// guid: f3b8e0a6-2c57-4d19-9a6e-48d1c7b2f0e5

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jdfalk/blist/internal/archive"
	"github.com/jdfalk/blist/internal/fileops"
	"github.com/jdfalk/blist/internal/playlist"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// containerView is the printable form of a container
type containerView struct {
	File        string         `json:"file" yaml:"file"`
	SHA256      string         `json:"sha256" yaml:"sha256"`
	Size        int64          `json:"size" yaml:"size"`
	Title       string         `json:"title" yaml:"title"`
	Author      *string        `json:"author,omitempty" yaml:"author,omitempty"`
	Description *string        `json:"description,omitempty" yaml:"description,omitempty"`
	Cover       *coverView     `json:"cover,omitempty" yaml:"cover,omitempty"`
	Tracks      []trackView    `json:"tracks" yaml:"tracks"`
	CustomData  map[string]any `json:"customData,omitempty" yaml:"customData,omitempty"`
}

type coverView struct {
	Path string `json:"path" yaml:"path"`
	Kind string `json:"kind" yaml:"kind"`
	Size int    `json:"size" yaml:"size"`
}

type trackView struct {
	Type         string         `json:"type" yaml:"type"`
	ID           string         `json:"id" yaml:"id"`
	Date         *time.Time     `json:"date,omitempty" yaml:"date,omitempty"`
	Difficulties []string       `json:"difficulties,omitempty" yaml:"difficulties,omitempty"`
	CustomData   map[string]any `json:"customData,omitempty" yaml:"customData,omitempty"`
}

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Print the contents of a playlist container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			return runInspect(cmd.OutOrStdout(), args[0], format)
		},
	}
	cmd.Flags().StringP("format", "f", "table", "output format: table, json or yaml")
	return cmd
}

func runInspect(out io.Writer, file, format string) error {
	format = strings.ToLower(format)
	switch format {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("unknown format %q (want table, json or yaml)", format)
	}

	p, err := archive.ReadFile(file)
	if err != nil {
		return err
	}
	view, err := newContainerView(file, p)
	if err != nil {
		return err
	}

	switch format {
	case "json":
		data, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case "yaml":
		data, err := yaml.Marshal(view)
		if err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		fmt.Fprint(out, string(data))
	default:
		fmt.Fprintln(out, renderContainerView(view))
	}
	return nil
}

func newContainerView(file string, p *playlist.Playlist) (*containerView, error) {
	digest, err := fileops.DigestFile(file)
	if err != nil {
		return nil, err
	}

	view := &containerView{
		File:        file,
		SHA256:      digest.SHA256,
		Size:        digest.Size,
		Title:       p.Title,
		Author:      p.Author,
		Description: p.Description,
		Tracks:      make([]trackView, 0, len(p.Maps)),
	}
	if view.CustomData, err = decodeCustomData(p.CustomData); err != nil {
		return nil, err
	}
	if p.Cover != nil {
		view.Cover = &coverView{Path: p.Cover.Path, Kind: p.Cover.Kind.String(), Size: len(p.Cover.Data)}
	}

	for _, t := range p.Maps {
		tv := trackView{Type: t.Type.String(), ID: trackID(t), Date: t.Date}
		for _, d := range t.Difficulties {
			tv.Difficulties = append(tv.Difficulties, d.Characteristic+"/"+d.Name)
		}
		if tv.CustomData, err = decodeCustomData(t.CustomData); err != nil {
			return nil, err
		}
		view.Tracks = append(view.Tracks, tv)
	}
	return view, nil
}

// decodeCustomData turns raw JSON values into plain values yaml can encode
func decodeCustomData(c playlist.CustomData) (map[string]any, error) {
	if len(c) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(c))
	for key, raw := range c {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("failed to decode custom data %q: %w", key, err)
		}
		out[key] = v
	}
	return out, nil
}

func trackID(t playlist.Track) string {
	var id *string
	switch t.Type {
	case playlist.TrackKey:
		id = t.Key
	case playlist.TrackHash:
		id = t.Hash
	case playlist.TrackLevelID:
		id = t.LevelID
	}
	if id == nil {
		return ""
	}
	return *id
}

func renderContainerView(v *containerView) string {
	fields := [][2]string{
		{"File", v.File},
		{"SHA-256", v.SHA256},
		{"Size", strconv.FormatInt(v.Size, 10) + " bytes"},
		{"Title", v.Title},
		{"Author", formatOptional(v.Author)},
		{"Description", formatOptional(v.Description)},
	}
	if v.Cover != nil {
		fields = append(fields, [2]string{"Cover", fmt.Sprintf("%s (%s, %d bytes)", v.Cover.Path, v.Cover.Kind, v.Cover.Size)})
	} else {
		fields = append(fields, [2]string{"Cover", "(none)"})
	}
	if len(v.CustomData) > 0 {
		keys := make([]string, 0, len(v.CustomData))
		for key := range v.CustomData {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		fields = append(fields, [2]string{"Custom data", strings.Join(keys, ", ")})
	}

	var b strings.Builder
	b.WriteString(renderFields(fields))
	b.WriteString("\n")

	if len(v.Tracks) == 0 {
		b.WriteString("No tracks")
		return b.String()
	}

	rows := make([][]string, 0, len(v.Tracks))
	for i, t := range v.Tracks {
		date := ""
		if t.Date != nil {
			date = t.Date.UTC().Format(time.RFC3339)
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), t.Type, t.ID, date, strings.Join(t.Difficulties, ", ")})
	}
	b.WriteString(renderTable(
		[]string{"#", "Type", "Identifier", "Added", "Difficulties"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
	))
	return b.String()
}

func formatOptional(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return "(empty)"
	}
	return *s
}
