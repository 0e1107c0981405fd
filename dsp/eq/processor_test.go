package eq

import (
	"errors"
	"math"
	"runtime"
	"testing"

	"github.com/cwbudde/algo-peq/internal/testutil"
	"github.com/cwbudde/algo-peq/measure/band"
)

func newTestProcessor(t *testing.T, src Source, opts ...Option) *Processor {
	t.Helper()

	p, err := New(src, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	return p
}

func scenarioSettings() Settings {
	return Settings{
		LowCutFreq:   100,
		HighCutFreq:  10000,
		PeakFreq:     1000,
		PeakGainDB:   6,
		PeakQuality:  1,
		LowCutSlope:  Slope12,
		HighCutSlope: Slope12,
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrNilSource) {
		t.Fatalf("New(nil) err = %v, want ErrNilSource", err)
	}

	p := newTestProcessor(t, NewStore())

	for _, sr := range []float64{0, -44100, math.NaN(), math.Inf(1)} {
		if err := p.Prepare(sr); !errors.Is(err, ErrInvalidSampleRate) {
			t.Fatalf("Prepare(%v) err = %v, want ErrInvalidSampleRate", sr, err)
		}
	}

	if p.SampleRate() != 48000 {
		t.Fatalf("failed Prepare changed the sample rate to %v", p.SampleRate())
	}
}

func TestNew_Options(t *testing.T) {
	p := newTestProcessor(t, NewStore(),
		WithSampleRate(96000),
		WithBlockSize(64),
		WithNyquistGuard(0.45),
		WithSampleRate(-1),
		WithBlockSize(0),
		WithNyquistGuard(0.7),
		nil,
	)

	if p.SampleRate() != 96000 || p.BlockSize() != 64 || p.cfg.guard != 0.45 {
		t.Fatalf("config = %+v", p.cfg)
	}
}

func TestProcessor_InitialUpdateConfiguresChains(t *testing.T) {
	store := NewStore()
	store.Set(LowCutSlope, float64(Slope36))
	store.Set(HighCutSlope, float64(Slope24))

	p := newTestProcessor(t, store)

	for _, ch := range []*ChannelChain{p.Left(), p.Right()} {
		if ch.LowCut.ActiveStages() != 3 || ch.HighCut.ActiveStages() != 2 {
			t.Fatalf("active stages = %d/%d, want 3/2", ch.LowCut.ActiveStages(), ch.HighCut.ActiveStages())
		}

		if !ch.Peak.Active() {
			t.Fatal("peak stage must always be active")
		}
	}

	if p.Settings() != store.Snapshot() {
		t.Fatalf("applied settings %+v", p.Settings())
	}
}

func TestProcessor_ChannelsShareCoefficients(t *testing.T) {
	store := NewStore()
	store.Load(scenarioSettings())
	store.Set(LowCutSlope, float64(Slope48))

	p := newTestProcessor(t, store)

	l, r := p.Left(), p.Right()
	if l.Peak.Coefficients() != r.Peak.Coefficients() {
		t.Fatal("peak coefficient sets are not shared")
	}

	for i := range MaxCutStages {
		if l.LowCut.Stage(i).Coefficients() != r.LowCut.Stage(i).Coefficients() {
			t.Fatalf("low cut stage %d not shared", i)
		}

		if l.HighCut.Stage(i).Coefficients() != r.HighCut.Stage(i).Coefficients() {
			t.Fatalf("high cut stage %d not shared", i)
		}
	}

	// Delay lines are per channel.
	p.Process(testutil.Noise(1, 1, 256), nil)

	if l.Peak.State() == ([2]float64{}) {
		t.Fatal("left delay line did not advance")
	}

	if r.Peak.State() != ([2]float64{}) {
		t.Fatal("right delay line advanced without input")
	}
}

func TestProcessor_UpdateSwapsOnlyOnChange(t *testing.T) {
	store := NewStore()
	p := newTestProcessor(t, store)

	before := p.Left().Peak.Coefficients()

	p.Update()

	if p.Left().Peak.Coefficients() != before {
		t.Fatal("unchanged snapshot swapped coefficients")
	}

	store.Set(PeakGain, 3)
	p.Update()

	after := p.Left().Peak.Coefficients()
	if after == before {
		t.Fatal("changed snapshot did not swap coefficients")
	}

	if *before == *after {
		t.Fatal("new coefficient set equals the old one")
	}

	if math.Abs(after.MagnitudeDB(750, 48000)-3) > 1e-9 {
		t.Fatalf("new peak gain = %v dB, want 3", after.MagnitudeDB(750, 48000))
	}

	// Prepare re-derives even without a parameter change.
	if err := p.Prepare(44100); err != nil {
		t.Fatal(err)
	}

	if p.Left().Peak.Coefficients() == after {
		t.Fatal("Prepare did not re-derive coefficients")
	}

	if math.Abs(p.Left().Peak.Coefficients().MagnitudeDB(750, 44100)-3) > 1e-9 {
		t.Fatal("coefficients not derived for the new sample rate")
	}
}

func TestProcessor_SlopeChangeTogglesBypass(t *testing.T) {
	store := NewStore()
	p := newTestProcessor(t, store)

	for _, k := range []Slope{Slope48, Slope12, Slope36, Slope24} {
		store.Set(HighCutSlope, float64(k))
		p.Update()

		for _, ch := range []*ChannelChain{p.Left(), p.Right()} {
			if got := ch.HighCut.ActiveStages(); got != k.Sections() {
				t.Fatalf("slope %v: %d active stages", k, got)
			}

			for i := range MaxCutStages {
				if ch.HighCut.Stage(i).Bypassed() != (i >= k.Sections()) {
					t.Fatalf("slope %v: stage %d bypass = %v", k, i, ch.HighCut.Stage(i).Bypassed())
				}
			}
		}
	}
}

func TestProcessor_LeftRightIdentical(t *testing.T) {
	store := NewStore()
	store.Load(scenarioSettings())
	store.Set(LowCutSlope, float64(Slope36))

	p := newTestProcessor(t, store)

	in := testutil.Noise(21, 0.5, 4096)
	left := testutil.Clone(in)
	right := testutil.Clone(in)

	for off := 0; off < len(in); off += 512 {
		store.Set(PeakGain, float64(off%7)-3)
		p.Process(left[off:off+512], right[off:off+512])
	}

	testutil.RequireBitIdentical(t, left, right)
	testutil.RequireFinite(t, left)
}

func TestProcessor_MonoBus(t *testing.T) {
	p := newTestProcessor(t, NewStore())

	buf := testutil.Noise(4, 0.5, 128)
	p.Process(buf, nil)
	testutil.RequireFinite(t, buf)

	p.Process(nil, nil)
}

func TestProcessor_EndToEndSpectrum(t *testing.T) {
	const sr = 48000

	store := NewStore()
	store.Load(scenarioSettings())

	p := newTestProcessor(t, store, WithSampleRate(sr))

	ref := testutil.Noise(1234, 0.5, 2*sr)
	left := testutil.Clone(ref)
	right := testutil.Clone(ref)

	for off := 0; off < len(ref); off += 480 {
		end := min(off+480, len(ref))
		p.Process(left[off:end], right[off:end])
	}

	a, err := band.NewAnalyzer(4096, sr)
	if err != nil {
		t.Fatal(err)
	}

	refSpec, err := a.Analyze(ref)
	if err != nil {
		t.Fatal(err)
	}

	outSpec, err := a.Analyze(left)
	if err != nil {
		t.Fatal(err)
	}

	gain := func(lo, hi float64) float64 {
		g, err := band.GainDB(outSpec, refSpec, lo, hi)
		if err != nil {
			t.Fatal(err)
		}

		return g
	}

	// Measured band gains are compared with generous margins around the
	// analytic response: noise spectra are averaged over 45 frames.
	if g := gain(20, 50); g > -6 {
		t.Errorf("below low cut: %.2f dB, want < -6", g)
	}

	if g := gain(15000, 20000); g > -6 {
		t.Errorf("above high cut: %.2f dB, want < -6", g)
	}

	if g := gain(900, 1100); g < 4.5 || g > 6.5 {
		t.Errorf("around peak: %.2f dB, want about +6", g)
	}

	if g := gain(20, 50); g >= gain(900, 1100) {
		t.Error("low band not attenuated relative to peak band")
	}

	testutil.RequireBitIdentical(t, left, right)
}

func TestProcessor_SmoothReconfiguration(t *testing.T) {
	const (
		sr    = 48000
		freq  = 1000
		amp   = 0.5
		block = 64
	)

	store := NewStore()
	store.Load(Settings{
		LowCutFreq:   20,
		HighCutFreq:  20000,
		PeakFreq:     1000,
		PeakGainDB:   0,
		PeakQuality:  1,
		LowCutSlope:  Slope24,
		HighCutSlope: Slope24,
	})

	p := newTestProcessor(t, store)

	buf := testutil.Sine(freq, sr, amp, 200*block)

	for i := 0; i < 200; i++ {
		// Ramp the peak gain from 0 to +6 dB and its frequency down an
		// octave in small per-block steps.
		store.Set(PeakGain, 0.5*float64(i/16))
		store.Set(PeakFreq, 1000-2.5*float64(i))
		p.Process(buf[i*block:(i+1)*block], nil)
	}

	// A sine of amplitude A changes by at most 2*pi*f/sr*A per sample;
	// the peak boosts A by up to 6 dB.
	limit := 2 * math.Pi * freq / sr * amp * 2 * 1.1
	if step := testutil.MaxStep(buf); step > limit {
		t.Fatalf("max sample step %.4f exceeds %.4f", step, limit)
	}

	testutil.RequireFinite(t, buf)
}

func TestProcessor_ProcessFloat32(t *testing.T) {
	settings := scenarioSettings()
	settings.LowCutSlope = Slope48

	src := SourceFunc(func() Settings { return settings })

	p64 := newTestProcessor(t, src)
	p32 := newTestProcessor(t, src, WithBlockSize(7))

	in := testutil.Noise(8, 0.5, 100)

	want := testutil.Clone(in)
	p64.Process(want, nil)

	left := testutil.ToFloat32(in)
	right := testutil.ToFloat32(in)
	p32.ProcessFloat32(left, right)

	for i := range want {
		if d := math.Abs(float64(left[i]) - want[i]); d > 1e-5 {
			t.Fatalf("sample %d: float32 %v, float64 %v", i, left[i], want[i])
		}

		if left[i] != right[i] {
			t.Fatalf("sample %d: left %v != right %v", i, left[i], right[i])
		}
	}
}

func TestProcessor_ResetClearsState(t *testing.T) {
	p := newTestProcessor(t, NewStore())

	p.Process(testutil.Noise(1, 1, 64), testutil.Noise(2, 1, 64))
	p.Reset()

	for _, ch := range []*ChannelChain{p.Left(), p.Right()} {
		if ch.Peak.State() != ([2]float64{}) || ch.LowCut.Stage(0).State() != ([2]float64{}) {
			t.Fatal("Reset left delay history behind")
		}
	}

	impulse := testutil.Impulse(32, 0)
	again := testutil.Clone(impulse)

	p.Process(impulse, nil)
	p.Reset()
	p.Process(again, nil)

	testutil.RequireBitIdentical(t, again, impulse)
}

func TestProcessor_ClampsOutOfRangeSnapshot(t *testing.T) {
	bad := Settings{
		LowCutFreq:   -10,
		HighCutFreq:  1e6,
		PeakFreq:     math.NaN(),
		PeakGainDB:   100,
		PeakQuality:  0,
		LowCutSlope:  Slope(12),
		HighCutSlope: Slope(-4),
	}

	if debugAssertions {
		t.Skip("eqdebug builds panic on out-of-range snapshots")
	}

	p := newTestProcessor(t, SourceFunc(func() Settings { return bad }))

	buf := testutil.Noise(6, 0.5, 256)
	p.Process(buf, nil)
	testutil.RequireFinite(t, buf)

	if p.Settings() != bad.Clamp() {
		t.Fatalf("applied %+v, want clamped %+v", p.Settings(), bad.Clamp())
	}
}

func TestResponse_MatchesLiveChain(t *testing.T) {
	settings := scenarioSettings()
	settings.LowCutSlope = Slope36
	settings.HighCutSlope = Slope48

	p := newTestProcessor(t, SourceFunc(func() Settings { return settings }))

	for _, f := range []float64{20, 60, 100, 500, 1000, 4000, 10000, 18000} {
		want := p.MagnitudeDB(f)
		if got := Response(settings, 48000, f); math.Abs(got-want) > 1e-9 {
			t.Errorf("Response(%v) = %v, live chain %v", f, got, want)
		}
	}

	if g := Response(settings, 48000, 1000); math.Abs(g-6) > 0.1 {
		t.Errorf("Response at peak = %v dB, want about 6", g)
	}

	if g := Response(DefaultSettings(), 48000, 1000); math.Abs(g) > 0.01 {
		t.Errorf("default response at 1 kHz = %v dB, want 0", g)
	}
}

func TestResponseWithGuard_MatchesLiveChain(t *testing.T) {
	settings := DefaultSettings()
	settings.HighCutSlope = Slope48

	p := newTestProcessor(t, SourceFunc(func() Settings { return settings }),
		WithSampleRate(44100), WithNyquistGuard(0.4))

	if g := p.NyquistGuard(); g != 0.4 {
		t.Fatalf("NyquistGuard() = %v, want 0.4", g)
	}

	for _, f := range []float64{1000, 10000, 15000, 17000, 19000, 21000} {
		want := p.MagnitudeDB(f)
		if got := ResponseWithGuard(settings, 44100, p.NyquistGuard(), f); math.Abs(got-want) > 1e-9 {
			t.Errorf("ResponseWithGuard(%v) = %v, live chain %v", f, got, want)
		}
	}

	// The high cut is clamped to 17640 Hz here, well below the default limit.
	if d := Response(settings, 44100, 19000) - p.MagnitudeDB(19000); d < 10 {
		t.Errorf("default-guard response only %.2f dB above the guarded chain at 19 kHz", d)
	}

	if got, want := ResponseWithGuard(settings, 44100, 0.9, 19000), Response(settings, 44100, 19000); got != want {
		t.Errorf("invalid guard gave %v, want default-guard %v", got, want)
	}
}

func TestProcessor_ActiveStagesReadLiveBank(t *testing.T) {
	settings := scenarioSettings()
	p := newTestProcessor(t, SourceFunc(func() Settings { return settings }))
	buf := testutil.Noise(5, 0.5, 64)

	for _, slope := range []Slope{Slope48, Slope12, Slope48, Slope24} {
		settings.LowCutSlope = slope
		p.Process(buf, buf)

		live := &p.banks[p.live]

		for _, ch := range []*ChannelChain{p.Left(), p.Right()} {
			for i := range MaxCutStages {
				st := ch.LowCut.Stage(i)
				if !st.Active() {
					continue
				}

				if st.Coefficients() != &live.lowCut[i] {
					t.Fatalf("slope %v: active stage %d reads outside the live bank", slope, i)
				}
			}

			if ch.Peak.Coefficients() != &live.peak {
				t.Fatalf("slope %v: peak stage reads outside the live bank", slope)
			}
		}
	}
}

// The first block after New runs on the audio thread too, so nothing may be
// deferred to it.
func TestProcessor_FirstProcessDoesNotAllocate(t *testing.T) {
	p := newTestProcessor(t, NewStore())
	left := testutil.Noise(3, 0.5, 512)
	right := testutil.Noise(4, 0.5, 512)

	var before, after runtime.MemStats

	runtime.ReadMemStats(&before)
	p.Process(left, right)
	runtime.ReadMemStats(&after)

	if n := after.Mallocs - before.Mallocs; n != 0 {
		t.Fatalf("first Process allocated %d times", n)
	}
}

func TestProcessor_ZeroAlloc(t *testing.T) {
	settings := scenarioSettings()
	flip := false

	src := SourceFunc(func() Settings {
		flip = !flip
		if flip {
			settings.LowCutSlope = Slope48
			settings.PeakGainDB = 3
		} else {
			settings.LowCutSlope = Slope12
			settings.PeakGainDB = -3
		}

		return settings
	})

	p := newTestProcessor(t, src, WithBlockSize(128))

	left := testutil.Noise(1, 0.5, 256)
	right := testutil.Noise(2, 0.5, 256)
	left32 := testutil.ToFloat32(left)
	right32 := testutil.ToFloat32(right)

	allocs := testing.AllocsPerRun(200, func() {
		p.Process(left, right)
		p.ProcessFloat32(left32, right32)
		_ = Response(settings, 48000, 1000)
	})
	if allocs != 0 {
		t.Fatalf("allocs = %v, want 0", allocs)
	}
}
