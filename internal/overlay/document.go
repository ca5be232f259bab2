package overlay

// Value is an environment value inside a service declaration.
type Value interface {
	// Render returns the text written into the overlay.
	Render() string
	value()
}

// Literal is a value resolved when the overlay is generated.
type Literal string

// Render returns the literal text.
func (l Literal) Render() string { return string(l) }

func (Literal) value() {}

// Deferred names a variable that Compose interpolates from its own environment.
type Deferred string

// Render returns the interpolation expression for the variable.
func (d Deferred) Render() string { return "${" + string(d) + "}" }

func (Deferred) value() {}

// EnvVar is a single NAME=value entry.
type EnvVar struct {
	Name  string
	Value Value
}

// String returns the NAME=value form used in Compose environment lists.
func (e EnvVar) String() string {
	if e.Value == nil {
		return e.Name + "="
	}
	return e.Name + "=" + e.Value.Render()
}

// Extends points a service at a shared base definition.
type Extends struct {
	// Service is the base service name.
	Service string
	// File is the Compose file declaring the base service.
	File string
}

// Service is one generated recorder declaration.
type Service struct {
	Name          string
	ContainerName string
	Environment   []EnvVar
	Extends       Extends
}

// Document is the overlay root, an ordered list of services.
type Document struct {
	Services []Service
}
