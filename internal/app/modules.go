package app

import (
	"github.com/vk/patchbaygo/internal/registry"
	"github.com/vk/patchbaygo/modules/bandpass"
	"github.com/vk/patchbaygo/modules/bitcrusher"
	"github.com/vk/patchbaygo/modules/clip"
	"github.com/vk/patchbaygo/modules/crossfade"
	"github.com/vk/patchbaygo/modules/delay"
	"github.com/vk/patchbaygo/modules/envelope"
	"github.com/vk/patchbaygo/modules/lfo"
	"github.com/vk/patchbaygo/modules/meter"
	"github.com/vk/patchbaygo/modules/noise"
	"github.com/vk/patchbaygo/modules/oscillator"
	"github.com/vk/patchbaygo/modules/pan"
	"github.com/vk/patchbaygo/modules/reversedelay"
	"github.com/vk/patchbaygo/modules/samplehold"
	"github.com/vk/patchbaygo/modules/sampler"
	"github.com/vk/patchbaygo/modules/speech"
	"github.com/vk/patchbaygo/modules/split"
	"github.com/vk/patchbaygo/modules/sum"
)

// coreModules is the definitive list of all modules that are compiled into
// the patchbay binary.
var coreModules = []registry.Module{
	&oscillator.Module{},
	&lfo.Module{},
	&noise.Module{},
	&sampler.Module{},
	&speech.Module{},
	&bandpass.Module{},
	&envelope.Module{},
	&delay.Module{},
	&reversedelay.Module{},
	&bitcrusher.Module{},
	&clip.Module{},
	&samplehold.Module{},
	&pan.Module{},
	&crossfade.Module{},
	&split.Module{},
	&sum.Module{},
	&meter.Module{},
}
