// Package mixer sums the output of patched module chains onto a stereo bus.
//
// Each Strip owns one source module plus the classic fader controls: gain,
// pan and mute. Strip parameters are stored atomically so a control surface
// can move a fader while the audio callback is mixing, without locks on the
// hot path.
//
// The fader law matches the hardware-style scale the application has always
// used: 0..100 maps linearly in dB from -60 to +10, with position 0 treated
// as -inf (gain zero).
package mixer
