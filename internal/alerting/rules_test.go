package alerting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printwatch/internal/models"
)

func signatures(ds []Detection) []Signature {
	out := make([]Signature, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.Signature)
	}
	return out
}

func TestHeatbedRule_Predicates(t *testing.T) {
	s := DefaultSettings()
	tests := []struct {
		name string
		snap models.TelemetrySnapshot
		want []Signature
	}{
		{
			name: "at target",
			snap: models.TelemetrySnapshot{BedTemp: models.Float(60), BedTarget: models.Float(60), BedPower: models.Float(0.3)},
			want: []Signature{},
		},
		{
			name: "no current",
			snap: models.TelemetrySnapshot{BedTemp: models.Float(30), BedTarget: models.Float(60), BedPower: models.Float(0)},
			want: []Signature{
				{Code: "CB2565", Context: "heater_bed/no_current"},
				{Code: "CB2565", Context: "heater_bed/too_low"},
			},
		},
		{
			name: "open circuit reads zero",
			snap: models.TelemetrySnapshot{BedTemp: models.Float(0)},
			want: []Signature{{Code: "CB2510", Context: "heater_bed/open_circuit"}},
		},
		{
			name: "open circuit reads negative",
			snap: models.TelemetrySnapshot{BedTemp: models.Float(-12)},
			want: []Signature{{Code: "CB2510", Context: "heater_bed/open_circuit"}},
		},
		{
			name: "too high",
			snap: models.TelemetrySnapshot{BedTemp: models.Float(75), BedTarget: models.Float(60)},
			want: []Signature{{Code: "CB2565", Context: "heater_bed/too_high"}},
		},
		{
			name: "short without target",
			snap: models.TelemetrySnapshot{BedTemp: models.Float(300)},
			want: []Signature{{Code: "CB2516", Context: "heater_bed/short"}},
		},
		{
			name: "no temperature reported",
			snap: models.TelemetrySnapshot{BedTarget: models.Float(60), BedPower: models.Float(0)},
			want: []Signature{},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			r := &heatbedRule{}
			got, err := r.Detect(&tc.snap, &s)
			require.NoError(t, err)
			assert.ElementsMatch(t, tc.want, signatures(got))
		})
	}
}

func TestHeatbedRule_NotHeatingNeedsPreviousTick(t *testing.T) {
	s := DefaultSettings()
	r := &heatbedRule{}
	snap := &models.TelemetrySnapshot{BedTemp: models.Float(195), BedTarget: models.Float(200), BedPower: models.Float(1)}

	got, _ := r.Detect(snap, &s)
	assert.Empty(t, got)

	got, _ = r.Detect(snap, &s)
	assert.Equal(t, []Signature{{Code: "CB2565", Context: "heater_bed/not_heating"}}, signatures(got))

	rising := &models.TelemetrySnapshot{BedTemp: models.Float(197), BedTarget: models.Float(200), BedPower: models.Float(1)}
	got, _ = r.Detect(rising, &s)
	assert.Empty(t, got)

	r.Reset()
	got, _ = r.Detect(snap, &s)
	assert.Empty(t, got)
}

func TestPowerRule(t *testing.T) {
	s := DefaultSettings()
	tests := []struct {
		name string
		snap models.TelemetrySnapshot
		want bool
	}{
		{"standby with progress", models.TelemetrySnapshot{Filename: models.String("benchy.gcode"), Progress: models.Float(42), PrintState: models.String("standby")}, true},
		{"duration only", models.TelemetrySnapshot{Filename: models.String("benchy.gcode"), PrintDuration: models.Float(12), PrintState: models.String("paused")}, true},
		{"state missing", models.TelemetrySnapshot{Filename: models.String("benchy.gcode"), Progress: models.Float(10)}, true},
		{"printing", models.TelemetrySnapshot{Filename: models.String("benchy.gcode"), Progress: models.Float(42), PrintState: models.String("printing")}, false},
		{"finished", models.TelemetrySnapshot{Filename: models.String("benchy.gcode"), Progress: models.Float(100), PrintState: models.String("complete")}, false},
		{"no file", models.TelemetrySnapshot{Progress: models.Float(42), PrintState: models.String("standby")}, false},
		{"blank file", models.TelemetrySnapshot{Filename: models.String("  "), Progress: models.Float(42)}, false},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := powerRule{}.Detect(&tc.snap, &s)
			require.NoError(t, err)
			if !tc.want {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, Signature{Code: "CM0115", Context: "benchy.gcode"}, got[0].Signature)
			assert.Equal(t, models.SeverityCritical, got[0].Severity)
			assert.Equal(t, "Tâche inachevée détectée pour le fichier: benchy.gcode", got[0].Message)
		})
	}
}

func TestMotionRule_ExtruderJam(t *testing.T) {
	s := DefaultSettings()
	r := &motionRule{}
	first := &models.TelemetrySnapshot{
		Position:         &models.Position{X: 1, Y: 1, Z: 1, E: 50},
		ExtruderVelocity: models.Float(2),
	}
	moved := &models.TelemetrySnapshot{
		Position:         &models.Position{X: 1, Y: 1, Z: 1, E: 52},
		ExtruderVelocity: models.Float(2),
	}

	got, _ := r.Detect(first, &s)
	assert.Empty(t, got)
	got, _ = r.Detect(moved, &s)
	assert.Empty(t, got)
	got, _ = r.Detect(moved, &s)
	assert.Equal(t, []Signature{{Code: "CM3001", Context: "extruder"}}, signatures(got))
}

func TestMotionRule_MovingToolheadIsFine(t *testing.T) {
	s := DefaultSettings()
	r := &motionRule{}
	for i := 0; i < 5; i++ {
		got, _ := r.Detect(&models.TelemetrySnapshot{
			Position: &models.Position{X: float64(i)},
			Velocity: models.Float(5),
		}, &s)
		assert.Empty(t, got)
	}
}

func TestMotionRule_Steppers(t *testing.T) {
	s := DefaultSettings()
	snap := &models.TelemetrySnapshot{
		Steppers: []models.StepperReading{
			{Axis: "x", LastError: models.String("lost sync"), EndstopTriggered: models.Bool(false)},
			{Axis: "stepper_y", LastError: models.String("move out of range")},
			{Axis: "z", LastError: models.String("")},
			{Axis: "e", LastError: models.String("unknown axis")},
			{Axis: "stepper_z", EndstopTriggered: models.Bool(false)}, // away from home while printing
		},
	}
	got, err := (&motionRule{}).Detect(snap, &s)
	require.NoError(t, err)
	assert.ElementsMatch(t, []Signature{
		{Code: "CX2573", Context: "stepper_x"},
		{Code: "CY2586", Context: "stepper_y"},
	}, signatures(got))
}

func TestFanRule(t *testing.T) {
	s := DefaultSettings()
	snap := &models.TelemetrySnapshot{
		Fans: []models.FanReading{
			{Name: "part_fan", Speed: models.Float(0.5), RPM: models.Float(0)},
			{Name: "hotend_fan", Speed: models.Float(1), RPM: models.Float(400)},
			{Name: "fan1", Speed: models.Float(1), RPM: models.Float(4000)},
			{Name: "fan2", Speed: models.Float(0.2), RPM: models.Float(0)},
			{Name: "fan3", Speed: models.Float(1)},
		},
	}
	got, err := fanRule{}.Detect(snap, &s)
	require.NoError(t, err)
	assert.ElementsMatch(t, []Signature{
		{Code: "FN0001", Context: "part_fan"},
		{Code: "FN0002", Context: "hotend_fan"},
	}, signatures(got))
}

func TestExtruderRule(t *testing.T) {
	s := DefaultSettings()
	tests := []struct {
		name string
		snap models.TelemetrySnapshot
		want []string
	}{
		{"heating fine", models.TelemetrySnapshot{NozzleTemp: models.Float(205), NozzleTarget: models.Float(210), NozzlePower: models.Float(0.9)}, nil},
		{"not rising", models.TelemetrySnapshot{NozzleTemp: models.Float(120), NozzleTarget: models.Float(210), NozzlePower: models.Float(1)}, []string{"EX0001"}},
		{"low power is not a fault", models.TelemetrySnapshot{NozzleTemp: models.Float(120), NozzleTarget: models.Float(210), NozzlePower: models.Float(0.5)}, nil},
		{"probe open", models.TelemetrySnapshot{NozzleTemp: models.Float(-40)}, []string{"EX0002"}},
		{"probe short", models.TelemetrySnapshot{NozzleTemp: models.Float(400)}, []string{"EX0002"}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := extruderRule{}.Detect(&tc.snap, &s)
			require.NoError(t, err)
			var codes []string
			for _, d := range got {
				codes = append(codes, d.Signature.Code)
			}
			assert.Equal(t, tc.want, codes)
		})
	}
}
