// Package patch loads patch files and assembles them into a runnable graph.
//
// A patch is one .hcl file (or a directory of them) declaring three block
// kinds: `module` instantiates a registered module type under an instance
// name, `connect` wires an outlet to an inlet, and `channel` puts a module's
// output on a mixer strip:
//
//	module "oscillator" "osc1" {
//	  frequency = 440
//	  waveform  = "sine"
//	}
//
//	connect {
//	  from = "osc1"      # port defaults to "out"
//	  to   = "filt.in"
//	}
//
//	channel "main" {
//	  source  = "filt"
//	  gain_db = -6.0
//	}
//
// Module parameter bodies are kept undecoded at load time; the builder
// decodes them against the registered parameter struct of the module type,
// with an evaluation context exposing `sample_rate`.
package patch
