package overlay

import (
	"strconv"
	"strings"

	"github.com/codex-k8s/course-crawler-init/internal/courses"
)

const (
	// DefaultFileName is the overlay file Compose merges over compose.yaml.
	DefaultFileName = "compose.override.yaml"
	// DefaultServicePrefix prefixes the 1-based position in service names.
	DefaultServicePrefix = "video-recorder"
	// DefaultBaseService is the service every generated block extends.
	DefaultBaseService = "video-recorder"
	// DefaultBaseFile declares DefaultBaseService.
	DefaultBaseFile = "common-services.yaml"
)

// Environment variable names written into every service.
const (
	EnvEmail    = "EMAIL"
	EnvPassword = "PASSWORD"
	EnvCourseID = "VIDEO_TO_RECORD_ID"
)

// Options tunes generated names. Zero fields fall back to defaults.
type Options struct {
	ServicePrefix string
	Extends       Extends
}

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.ServicePrefix) == "" {
		o.ServicePrefix = DefaultServicePrefix
	}
	if strings.TrimSpace(o.Extends.Service) == "" {
		o.Extends.Service = DefaultBaseService
	}
	if strings.TrimSpace(o.Extends.File) == "" {
		o.Extends.File = DefaultBaseFile
	}
	return o
}

// Build declares one service per course, named by its position in items.
func Build(items []courses.Course, opts Options) Document {
	opts = opts.withDefaults()
	doc := Document{Services: make([]Service, 0, len(items))}
	for i, item := range items {
		name := opts.ServicePrefix + strconv.Itoa(i+1)
		doc.Services = append(doc.Services, Service{
			Name:          name,
			ContainerName: name,
			Environment: []EnvVar{
				{Name: EnvEmail, Value: Deferred(EnvEmail)},
				{Name: EnvPassword, Value: Deferred(EnvPassword)},
				{Name: EnvCourseID, Value: Literal(strconv.FormatUint(uint64(item.ID), 10))},
			},
			Extends: opts.Extends,
		})
	}
	return doc
}
