package plugin

import (
	"errors"
	"testing"
)

func TestBytesPerSecond(t *testing.T) {
	sf := SampleFormat{Rate: 44100, Channels: 2, Bits: 16, Signed: true}
	if got := sf.BytesPerSecond(); got != 44100*2*2 {
		t.Fatalf("expected %d, got %d", 44100*2*2, got)
	}
}

func TestPromotedToStereo16(t *testing.T) {
	sf := SampleFormat{Rate: 48000, Channels: 1, Bits: 8, Signed: false}
	if !sf.IsLowRes() {
		t.Fatal("expected mono 8-bit to be low-res")
	}
	promoted := sf.PromotedToStereo16()
	if promoted.Channels != 2 || promoted.Bits != 16 || !promoted.Signed {
		t.Fatalf("unexpected promotion result: %+v", promoted)
	}
	if promoted.Rate != sf.Rate {
		t.Fatalf("expected rate preserved, got %d", promoted.Rate)
	}
}

func TestIsLowResBoundary(t *testing.T) {
	hiRes := SampleFormat{Rate: 96000, Channels: 6, Bits: 24}
	if hiRes.IsLowRes() {
		t.Fatal("6-channel 24-bit should not be low-res")
	}
}

func TestErrorWrapping(t *testing.T) {
	cause := errors.New("disk read failed")
	err := NewError(KindReadFailed, "flac", "decode frame", cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected errors.Is to find wrapped cause")
	}
	var pe *Error
	if !errors.As(err, &pe) {
		t.Fatal("expected errors.As to extract *plugin.Error")
	}
	if pe.Kind != KindReadFailed {
		t.Fatalf("expected KindReadFailed, got %v", pe.Kind)
	}
}

func TestIsWouldBlock(t *testing.T) {
	wb := NewError(KindWouldBlock, "http", "slow network", nil)
	if !IsWouldBlock(wb) {
		t.Fatal("expected would-block error to be detected")
	}
	other := NewError(KindReadFailed, "http", "bad data", nil)
	if IsWouldBlock(other) {
		t.Fatal("non-would-block error incorrectly detected as would-block")
	}
	if IsWouldBlock(errors.New("plain error")) {
		t.Fatal("plain error incorrectly detected as would-block")
	}
}

func TestChannelMapValid(t *testing.T) {
	var empty ChannelMap
	if empty.Valid() {
		t.Fatal("empty map should be invalid")
	}
	stereo := StereoChannelMap()
	if !stereo.Valid() {
		t.Fatal("stereo map should be valid")
	}
}
