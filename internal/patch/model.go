package patch

import "github.com/hashicorp/hcl/v2"

// Patch is the merged, not-yet-built content of one or more patch files.
type Patch struct {
	Name     string
	Modules  []*ModuleBlock
	Connects []*ConnectBlock
	Channels []*ChannelBlock
}

// ModuleBlock is one `module "type" "name" { … }` block. Params stays an
// undecoded HCL body until the builder knows the module type's parameter
// struct.
type ModuleBlock struct {
	Type   string   `hcl:"type,label"`
	Name   string   `hcl:"name,label"`
	Params hcl.Body `hcl:",remain"`
}

// ConnectBlock is one `connect { from = … to = … }` block. Both ends are
// "instance" or "instance.port" addresses.
type ConnectBlock struct {
	From string `hcl:"from"`
	To   string `hcl:"to"`
}

// ChannelBlock is one `channel "name" { … }` block describing a mixer strip.
type ChannelBlock struct {
	Name   string  `hcl:"name,label"`
	Source string  `hcl:"source"`
	GainDB float64 `hcl:"gain_db,optional"`
	Pan    float64 `hcl:"pan,optional"`
	Mute   bool    `hcl:"mute,optional"`
}

// fileRoot decodes the top-level structure of a patch file.
type fileRoot struct {
	Modules  []*ModuleBlock  `hcl:"module,block"`
	Connects []*ConnectBlock `hcl:"connect,block"`
	Channels []*ChannelBlock `hcl:"channel,block"`
}
