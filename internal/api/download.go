package api

import (
	"context"
	"fmt"
	"mime"
	"regexp"
	"strings"
)

// defaultFileName is used when the backend names no file.
const defaultFileName = "download"

var fileNamePattern = regexp.MustCompile(`filename=(.+)`)

// Download is a file returned by a binary route.
type Download struct {
	Data        []byte
	FileName    string
	ContentType string
}

func (c *client) download(ctx context.Context, rt Route, in call) (*Download, error) {
	if rt.Unwrap != Binary {
		return nil, fmt.Errorf("route %s does not return binary content", rt.Name)
	}
	resp, err := c.send(ctx, rt, in)
	if err != nil {
		return nil, err
	}
	return &Download{
		Data:        resp.Body,
		FileName:    fileNameFrom(resp.Header.Get("Content-Disposition")),
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// fileNameFrom extracts the filename from a Content-Disposition header.
// Well-formed headers are parsed properly; anything else falls back to the
// text after "filename=".
func fileNameFrom(disposition string) string {
	if disposition == "" {
		return defaultFileName
	}
	if _, params, err := mime.ParseMediaType(disposition); err == nil {
		if name := params["filename"]; name != "" {
			return name
		}
	}
	if m := fileNamePattern.FindStringSubmatch(disposition); len(m) == 2 {
		if name := strings.Trim(strings.TrimSpace(m[1]), `"`); name != "" {
			return name
		}
	}
	return defaultFileName
}
