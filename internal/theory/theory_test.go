package theory

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveNote(t *testing.T) {
	tests := []struct {
		name     string
		note     string
		octave   int
		expected Pitch
		wantErr  bool
	}{
		{name: "C3 reference", note: "C", octave: 3, expected: 48},
		{name: "B3", note: "B", octave: 3, expected: 59},
		{name: "middle C", note: "C", octave: 4, expected: 60},
		{name: "E2 bass root", note: "E", octave: 2, expected: 40},
		{name: "E1 rock bass", note: "E", octave: 1, expected: 28},
		{name: "A4 piano", note: "A", octave: 4, expected: 69},
		{name: "sharp", note: "F#", octave: 3, expected: 54},
		{name: "flat", note: "Bb", octave: 3, expected: 58},
		{name: "Cb wraps to B", note: "Cb", octave: 3, expected: 59},
		{name: "lowercase", note: "a", octave: 3, expected: 57},
		{name: "E sharp rejected", note: "E#", octave: 3, wantErr: true},
		{name: "unknown letter", note: "H", octave: 3, wantErr: true},
		{name: "empty", note: "", octave: 3, wantErr: true},
		{name: "too long", note: "C##", octave: 3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveNote(tt.note, tt.octave)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidNoteName)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolveNote_EnharmonicEquivalence(t *testing.T) {
	for _, pair := range [][2]string{{"Db", "C#"}, {"Eb", "D#"}, {"Gb", "F#"}, {"Ab", "G#"}, {"Bb", "A#"}} {
		flat, err := ResolveNote(pair[0], 3)
		require.NoError(t, err)
		sharp, err := ResolveNote(pair[1], 3)
		require.NoError(t, err)
		assert.Equal(t, sharp, flat, "%s should equal %s", pair[0], pair[1])
	}
}

func TestParseKey(t *testing.T) {
	key, err := ParseKey(" bB ")
	require.NoError(t, err)
	assert.Equal(t, "A#", key)

	key, err = ParseKey("f#")
	require.NoError(t, err)
	assert.Equal(t, "F#", key)
}

func TestBuildScale(t *testing.T) {
	root, err := ResolveNote("C", 3)
	require.NoError(t, err)

	major, err := BuildScale(root, Major)
	require.NoError(t, err)
	assert.Equal(t, Scale{48, 50, 52, 53, 55, 57, 59, 60}, major)

	aRoot, err := ResolveNote("A", 3)
	require.NoError(t, err)
	minor, err := BuildScale(aRoot, Minor)
	require.NoError(t, err)
	assert.Equal(t, Scale{57, 59, 60, 62, 64, 65, 67, 69}, minor)

	_, err = BuildScale(root, Mode("dorian"))
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestScaleProperties(t *testing.T) {
	for _, key := range []string{"C", "C#", "D", "Eb", "E", "F", "F#", "G", "Ab", "A", "Bb", "B"} {
		for _, mode := range Modes() {
			for octave := 0; octave <= 5; octave++ {
				scale, err := ScaleFor(key, mode, octave)
				require.NoError(t, err)

				assert.Len(t, scale.Pitches(), 8)
				assert.Equal(t, scale[0]+12, scale[7], "%s %s octave %d", key, mode, octave)
				for i := 1; i < len(scale); i++ {
					assert.Greater(t, scale[i], scale[i-1])
				}
			}
		}
	}
}

func TestScaleDegree(t *testing.T) {
	scale, err := ScaleFor("E", Minor, 2)
	require.NoError(t, err)

	p, err := scale.Degree(1)
	require.NoError(t, err)
	assert.Equal(t, Pitch(40), p)

	p, err = scale.Degree(5)
	require.NoError(t, err)
	assert.Equal(t, Pitch(47), p)

	_, err = scale.Degree(0)
	assert.ErrorIs(t, err, ErrInvalidDegree)
	_, err = scale.Degree(9)
	assert.ErrorIs(t, err, ErrInvalidDegree)
}

func TestScaleWithOctave(t *testing.T) {
	scale, err := ScaleFor("C", Major, 3)
	require.NoError(t, err)

	pitches := scale.WithOctave()
	require.Len(t, pitches, 16)
	assert.Equal(t, Pitch(60), pitches[8])
	assert.Equal(t, Pitch(72), pitches[15])
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode(" Minor")
	require.NoError(t, err)
	assert.Equal(t, Minor, mode)

	_, err = ParseMode("lydian")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestBuildChord(t *testing.T) {
	root := Pitch(60)
	tests := []struct {
		quality  Quality
		expected Chord
	}{
		{QualityMajor, Chord{60, 64, 67}},
		{QualityMinor, Chord{60, 63, 67}},
		{QualityDominant7, Chord{60, 64, 67, 70}},
		{QualityMinor7, Chord{60, 63, 67, 70}},
		{QualityMajor7, Chord{60, 64, 67, 71}},
		{QualityPower, Chord{60, 67}},
		{Quality("sus4"), Chord{60}},
	}

	for _, tt := range tests {
		t.Run(string(tt.quality), func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildChord(root, tt.quality))
		})
	}
}

func TestQualityThird(t *testing.T) {
	assert.Equal(t, 4, QualityMajor.Third())
	assert.Equal(t, 4, QualityDominant7.Third())
	assert.Equal(t, 3, QualityMinor.Third())
	assert.Equal(t, 3, QualityMinor7.Third())
}

func TestParseQuality(t *testing.T) {
	q, err := ParseQuality("m7")
	require.NoError(t, err)
	assert.Equal(t, QualityMinor7, q)

	q, err = ParseQuality("Dominant7")
	require.NoError(t, err)
	assert.Equal(t, QualityDominant7, q)

	_, err = ParseQuality("diminished")
	assert.ErrorIs(t, err, ErrUnknownQuality)
}

func TestNotationName(t *testing.T) {
	tests := []struct {
		pitch    Pitch
		expected string
	}{
		{48, "c"},
		{60, "c'"},
		{69, "a'"},
		{72, "c''"},
		{76, "e''"},
		{40, "e,"},
		{28, "e,,"},
		{54, "fis"},
		{58, "ais"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, NotationName(tt.pitch), "pitch %d", tt.pitch)
	}
}

func TestParseProgression(t *testing.T) {
	prog, err := ParseProgression("1-minor, 4-major,5-dominant7")
	require.NoError(t, err)
	assert.Equal(t, Progression{
		{Degree: 1, Quality: QualityMinor},
		{Degree: 4, Quality: QualityMajor},
		{Degree: 5, Quality: QualityDominant7},
	}, prog)
	assert.Equal(t, "1-minor, 4-major, 5-dominant7", prog.String())

	empty, err := ParseProgression("  ")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = ParseProgression("1minor")
	assert.ErrorIs(t, err, ErrInvalidProgression)

	_, err = ParseProgression("one-minor")
	assert.ErrorIs(t, err, ErrInvalidProgression)

	_, err = ParseProgression("8-major")
	assert.ErrorIs(t, err, ErrInvalidDegree)

	_, err = ParseProgression("0-major")
	assert.ErrorIs(t, err, ErrInvalidDegree)

	_, err = ParseProgression("1-augmented")
	assert.ErrorIs(t, err, ErrUnknownQuality)
}

func TestProgressionCycle(t *testing.T) {
	prog := Progression{{1, QualityMinor}, {6, QualityMajor}, {7, QualityMajor}}

	cycled := prog.Cycle(5)
	require.Len(t, cycled, 5)
	assert.Equal(t, prog[0], cycled[3])
	assert.Equal(t, prog[1], cycled[4])

	assert.Len(t, prog.Cycle(2), 2)
	assert.Empty(t, Progression{}.Cycle(4))
}

func TestChordSpecResolve(t *testing.T) {
	scale, err := ScaleFor("A", Minor, 4)
	require.NoError(t, err)

	chord, err := ChordSpec{Degree: 4, Quality: QualityMinor}.Resolve(scale)
	require.NoError(t, err)
	assert.Equal(t, Chord{74, 77, 81}, chord)
}

func TestProgressionUnmarshalJSON(t *testing.T) {
	var fromString Progression
	require.NoError(t, json.Unmarshal([]byte(`"2-minor7, 5-dominant7"`), &fromString))
	assert.Equal(t, Progression{{2, QualityMinor7}, {5, QualityDominant7}}, fromString)

	var fromList Progression
	require.NoError(t, json.Unmarshal([]byte(`[{"degree":1,"quality":"maj7"}]`), &fromList))
	assert.Equal(t, Progression{{1, QualityMajor7}}, fromList)

	var bad Progression
	assert.ErrorIs(t, json.Unmarshal([]byte(`"9-major"`), &bad), ErrInvalidDegree)

	var req struct {
		Progression Progression `json:"progression"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"progression":null}`), &req))
	assert.Nil(t, req.Progression)

	fromNull := Progression{{1, QualityMajor}}
	require.NoError(t, fromNull.UnmarshalJSON([]byte("null")))
	assert.Nil(t, fromNull)
}
