package atarigen

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"atarihw/hw/hwdefs"
	"atarihw/hw/hwio"
)

func TestMailboxReadFromSoundIdempotence(t *testing.T) {
	p, h := newTestPlatform(t)

	p.Sound.SendToCPU(0x5A)
	if !p.Sound.SoundToCPUReady {
		t.Fatalf("send should set the ready flag")
	}
	if h.irq[hwdefs.MainCPU] != 4 {
		t.Fatalf("sound interrupt not raised: level %d", h.irq[hwdefs.MainCPU])
	}

	first := p.Sound.ReadFromSound(0)
	if p.Sound.SoundToCPUReady {
		t.Errorf("first read should clear the ready flag")
	}
	second := p.Sound.ReadFromSound(0)
	if first != 0xFF5A || second != first {
		t.Errorf("reads = %04x, %04x, want ff5a twice", first, second)
	}

	h.reset()
	p.IRQ.Update()
	if len(h.calls) != 0 {
		t.Errorf("recompute after second read changed lines: %v", h.calls)
	}
	if h.irq[hwdefs.MainCPU] != 0 {
		t.Errorf("main irq level = %d, want cleared", h.irq[hwdefs.MainCPU])
	}
}

func TestMailboxSendToSound(t *testing.T) {
	p, h := newTestPlatform(t)

	// Upper lane only: ignored by the low-lane handler.
	p.Sound.SendToSound(0, 0x1200, hwio.MaskHigh)
	if p.Sound.CPUToSoundReady {
		t.Fatalf("write on the wrong lane should be ignored")
	}

	p.Sound.SendToSound(0, 0x0034, hwio.MaskLow)
	if !p.Sound.CPUToSoundReady || !h.nmi[hwdefs.AudioCPU] {
		t.Fatalf("send should set ready and assert NMI")
	}
	if got := p.Sound.ReadFromCPU(); got != 0x34 {
		t.Errorf("ReadFromCPU = %02x, want 34", got)
	}
	if p.Sound.CPUToSoundReady || h.nmi[hwdefs.AudioCPU] {
		t.Errorf("audio read should clear ready and NMI")
	}

	p.Sound.SendToSoundUpper(0, 0x7700, hwio.MaskHigh)
	if p.Sound.CPUToSound != 0x77 {
		t.Errorf("upper send = %02x, want 77", p.Sound.CPUToSound)
	}
	if h.reschedules == 0 {
		t.Errorf("mailbox writes should request a reschedule")
	}
}

func TestSoundReset(t *testing.T) {
	p, h := newTestPlatform(t)

	p.Sound.SendToCPU(0x01)
	p.Sound.SoundReset()
	if p.Sound.SoundToCPUReady || p.IRQ.Pending() != 0 {
		t.Errorf("sound reset should flush the mailbox and ack the interrupt")
	}
	want := []string{
		"irq main 4 assert",
		"reset audio pulse",
		"irq main 7 clear",
	}
	if diff := cmp.Diff(want, h.calls); diff != "" {
		t.Errorf("line changes mismatch (-want +got):\n%s", diff)
	}
}

func TestAudioIRQ(t *testing.T) {
	p, h := newTestPlatform(t)

	p.Sound.TimedIntGen()
	if got := h.calls[len(h.calls)-1]; got != "irq audio 0 assert" {
		t.Fatalf("timed interrupt not asserted: %v", h.calls)
	}
	p.Sound.SetYM2151IRQ(true)
	p.Sound.IRQAck()
	if got := h.calls[len(h.calls)-1]; got != "irq audio 0 assert" {
		t.Errorf("YM2151 interrupt should keep the line asserted, got %q", got)
	}
	p.Sound.SetYM2151IRQ(false)
	if got := h.calls[len(h.calls)-1]; got != "irq audio 0 clear" {
		t.Errorf("line should clear, got %q", got)
	}
}
