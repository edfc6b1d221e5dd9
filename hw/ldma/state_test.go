package ldma

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ldmasim/hw/snapshot"
)

func TestState(t *testing.T) {
	m := newTestMachine(t, EFR32xG22, DefaultOptions())
	d := byteCopy(0x1000, 0x2000, 2)
	d.BlockSize = Unit2
	d.DoneIEN = true
	m.putDesc(0x3000, d)
	m.selectRequest(0, xg22TIMER0, 1)
	m.arm(0, 0x3000)
	m.write("IEN", 1)
	m.write("SWREQ", 1)
	m.ctrl.OnSignal(MakeSignal(xg22TIMER1, 2, true), true)
	m.advanceUs(3)

	st := m.ctrl.State()
	if st.Family != "efr32xg22" || st.Time != 3e-6 {
		t.Errorf("family=%s time=%g", st.Family, st.Time)
	}
	if diff := cmp.Diff(snapshot.IRQ{Wide: true}, st.IRQ); diff != "" {
		t.Errorf("IRQ mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]uint16{0x1032}, st.Signals); diff != "" {
		t.Errorf("signals mismatch (-want +got):\n%s", diff)
	}
	if len(st.Channels) != 8 {
		t.Fatalf("got %d channels, want 8", len(st.Channels))
	}

	want := snapshot.Channel{
		Index:               0,
		State:               "Done",
		Enabled:             true,
		Done:                true,
		DoneInterrupt:       true,
		DoneInterruptEnable: true,
		Source:              xg22TIMER0,
		Signal:              1,
		HasDescriptorAddr:   true,
		DescriptorAddr:      0x3000,
		Descriptor: snapshot.Descriptor{
			Kind:          "Transfer",
			TransferCount: 1,
			BlockSize:     "Unit2",
			DoneIEN:       true,
			ReqMode:       "BlockRequest",
			SrcInc:        "IncOne",
			Size:          "SizeByte",
			DstInc:        "IncOne",
			SrcMode:       "Absolute",
			DstMode:       "Absolute",
			SrcAddr:       0x1002,
			DstAddr:       0x2002,
			LinkMode:      "Absolute",
		},
	}
	if diff := cmp.Diff(want, st.Channels[0]); diff != "" {
		t.Errorf("channel 0 mismatch (-want +got):\n%s", diff)
	}
	if st.Channels[1].State != "Idle" || st.Channels[1].HasDescriptorAddr {
		t.Errorf("channel 1 = %+v", st.Channels[1])
	}

	var buf bytes.Buffer
	if err := st.WriteJSON(&buf); err != nil {
		t.Fatal(err)
	}
	got, err := snapshot.Unmarshal(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(st, got); diff != "" {
		t.Errorf("JSON round trip mismatch (-want +got):\n%s", diff)
	}
}
