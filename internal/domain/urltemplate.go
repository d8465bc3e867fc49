package domain

import "strings"

// PostURLTemplate renders permalinks. Templates use {handle} and {id} placeholders.
type PostURLTemplate struct {
	WithHandle string
	IDOnly     string
}

// GenericPostURLTemplate is used for platforms without a configured template.
func GenericPostURLTemplate(platform string) PostURLTemplate {
	return PostURLTemplate{
		WithHandle: platform + "://{handle}/{id}",
		IDOnly:     platform + "://post/{id}",
	}
}

// Render fills the handle template when handle is known, the id-only one otherwise.
// An empty id renders as "".
func (t PostURLTemplate) Render(id, handle string) string {
	if id == "" {
		return ""
	}
	if handle != "" && t.WithHandle != "" {
		return strings.NewReplacer("{handle}", handle, "{id}", id).Replace(t.WithHandle)
	}
	return strings.ReplaceAll(t.IDOnly, "{id}", id)
}
