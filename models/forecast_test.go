package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

const fullForecast = `{
  "latitude": 37.8267,
  "longitude": -122.4233,
  "timezone": "America/Los_Angeles",
  "offset": -7,
  "currently": {
    "time": 1509993277,
    "summary": "Drizzle",
    "icon": "rain",
    "nearestStormDistance": 0,
    "precipIntensity": 0.0089,
    "precipIntensityError": 0.0046,
    "precipProbability": 0.9,
    "precipType": "rain",
    "temperature": 66.1,
    "apparentTemperature": 66.31,
    "dewPoint": 60.77,
    "humidity": 0.83,
    "pressure": 1010.34,
    "windSpeed": 5.59,
    "windGust": 12.03,
    "windBearing": 246,
    "cloudCover": 0.7,
    "uvIndex": 1,
    "visibility": 9.84,
    "ozone": 267.44
  },
  "minutely": {
    "summary": "Light rain stopping in 13 min.",
    "icon": "rain",
    "data": [
      {"time": 1509993240, "precipIntensity": 0.007, "precipIntensityError": 0.004, "precipProbability": 0.84, "precipType": "rain"},
      {"time": 1509993300, "precipIntensity": 0}
    ]
  },
  "daily": {
    "summary": "Mixed precipitation throughout the week.",
    "icon": "rain",
    "data": [
      {
        "time": 1509951600,
        "sunriseTime": 1509978350,
        "sunsetTime": 1510015330,
        "moonPhase": 0.59,
        "precipIntensityMax": 0.0225,
        "precipIntensityMaxTime": 1510002000,
        "temperatureHigh": 66.35,
        "temperatureHighTime": 1509994800,
        "temperatureLow": 52.08,
        "temperatureLowTime": 1510070400,
        "apparentTemperatureMax": 66.53,
        "apparentTemperatureMin": 52.08,
        "uvIndex": 2,
        "uvIndexTime": 1509994800
      }
    ]
  },
  "alerts": [
    {
      "title": "Flood Watch for Mason, WA",
      "time": 1509993360,
      "expires": 1510036680,
      "description": "...FLOOD WATCH REMAINS IN EFFECT THROUGH LATE FRIDAY NIGHT...",
      "uri": "https://alerts.weather.gov/cap/wwacapget.php?x=WA1255E4DB8494.FloodWatch.1255E4DCE35CWA.SEWFFASEW.38e78ec64613478bb70fc6ed9c87f6e6",
      "regions": ["Mason"],
      "severity": "watch"
    }
  ],
  "flags": {
    "sources": ["isd", "nearest-precip", "nwspa", "cmc", "gfs"],
    "isd-stations": ["724943-99999", "745039-99999"],
    "units": "us"
  }
}`

func TestDecodeFullForecast(t *testing.T) {
	var f Forecast
	if err := json.Unmarshal([]byte(fullForecast), &f); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if f.Timezone != "America/Los_Angeles" {
		t.Errorf("timezone = %q", f.Timezone)
	}
	if f.Currently == nil {
		t.Fatal("currently missing")
	}
	if got := ValueOr(f.Currently.Temperature, 0); got != 66.1 {
		t.Errorf("temperature = %v, want 66.1", got)
	}
	if got := ValueOr(f.Currently.PrecipIntensityError, 0); got != 0.0046 {
		t.Errorf("precipIntensityError = %v, want 0.0046", got)
	}
	if got := ValueOr(f.Currently.UVIndex, -1); got != 1 {
		t.Errorf("uvIndex = %v, want 1", got)
	}
	if !f.Currently.Precipitating() {
		t.Error("expected currently to be precipitating")
	}
	if f.Hourly != nil {
		t.Error("hourly should be absent")
	}
	if f.Minutely.Len() != 2 {
		t.Errorf("minutely len = %d, want 2", f.Minutely.Len())
	}

	today, ok := f.Today()
	if !ok {
		t.Fatal("daily block missing")
	}
	high, low, ok := today.HighLow()
	if !ok || high != 66.35 || low != 52.08 {
		t.Errorf("HighLow = %v, %v, %v", high, low, ok)
	}
	sunrise, sunset, ok := today.Sun()
	if !ok || !sunrise.Before(sunset) {
		t.Errorf("Sun = %v, %v, %v", sunrise, sunset, ok)
	}

	if !f.HasAlerts() || f.Alerts[0].Severity != SeverityWatch {
		t.Fatalf("alerts = %+v", f.Alerts)
	}
	issued := f.Alerts[0].IssuedAt()
	if got := f.ActiveAlerts(issued); len(got) != 1 {
		t.Errorf("active alerts at issue time = %d, want 1", len(got))
	}
	if got := f.ActiveAlerts(f.Alerts[0].ExpiresAt().Add(time.Second)); len(got) != 0 {
		t.Errorf("active alerts after expiry = %d, want 0", len(got))
	}

	if f.Flags == nil || ValueOr(f.Flags.Units, "") != "us" || len(f.Flags.ISDStations) != 2 {
		t.Errorf("flags = %+v", f.Flags)
	}
}

func TestDecodeMinimalForecast(t *testing.T) {
	payload := `{"latitude": 1.5, "longitude": -2, "timezone": "Etc/GMT",
		"currently": {"time": 1}, "hourly": {"data": [{"time": 2}, {"time": 3}]}}`

	var f Forecast
	if err := json.Unmarshal([]byte(payload), &f); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if f.Offset != nil || f.Flags != nil || f.Daily != nil || f.Minutely != nil {
		t.Errorf("absent blocks decoded as present: %+v", f)
	}
	if len(f.Alerts) != 0 {
		t.Errorf("alerts = %v, want empty", f.Alerts)
	}
	if _, ok := Value(f.Currently.Temperature); ok {
		t.Error("temperature should be absent")
	}
	if f.Hourly.Summary != nil || f.Hourly.Icon != nil {
		t.Error("hourly summary/icon should be absent")
	}
	if _, _, ok := f.Currently.HighLow(); ok {
		t.Error("HighLow should not be ok without temperatures")
	}
	if _, ok := f.Today(); ok {
		t.Error("Today should not be ok without a daily block")
	}
}

func TestDecodeTypeMismatch(t *testing.T) {
	var f Forecast
	err := json.Unmarshal([]byte(`{"latitude": "north", "longitude": 0, "timezone": "UTC"}`), &f)
	if err == nil {
		t.Fatal("expected error for string latitude")
	}
}

func TestUnknownEnumsDecode(t *testing.T) {
	var d Datapoint
	if err := json.Unmarshal([]byte(`{"time": 5, "icon": "volcano", "precipType": "frogs"}`), &d); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if d.Icon == nil || d.Icon.Known() {
		t.Errorf("icon = %v, want unknown value", d.Icon)
	}
	if d.PrecipType == nil || d.PrecipType.Known() {
		t.Errorf("precipType = %v, want unknown value", d.PrecipType)
	}
	if !IconPartlyCloudyNight.Known() {
		t.Error("partly-cloudy-night should be known")
	}
}

func TestHighLowFallsBackToMaxMin(t *testing.T) {
	d := Datapoint{TemperatureMax: Ptr(80.0), TemperatureMin: Ptr(60.0), TemperatureHigh: Ptr(78.0)}
	high, low, ok := d.HighLow()
	if !ok || high != 78 || low != 60 {
		t.Errorf("HighLow = %v, %v, %v", high, low, ok)
	}
}

func TestForecastLocation(t *testing.T) {
	f := Forecast{Timezone: "Nowhere/Special", Offset: Ptr(-3.5)}
	_, offset := time.Unix(0, 0).In(f.Location()).Zone()
	if offset != -3*3600-1800 {
		t.Errorf("offset = %d", offset)
	}

	f = Forecast{}
	if f.Location() != time.UTC {
		t.Error("expected UTC when timezone and offset are missing")
	}
}

func TestSeverityRank(t *testing.T) {
	if !(SeverityAdvisory.Rank() < SeverityWatch.Rank() && SeverityWatch.Rank() < SeverityWarning.Rank()) {
		t.Error("severities out of order")
	}
	if Severity("unknown").Rank() != 0 {
		t.Error("unknown severity should rank 0")
	}
}

func TestDecodeRejectsMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		target  interface{}
		field   string
	}{
		{"empty forecast", `{}`, &Forecast{}, "latitude"},
		{"null forecast", `null`, &Forecast{}, "latitude"},
		{"api error body", `{"code":400,"error":"The given location is invalid."}`, &Forecast{}, "latitude"},
		{"no timezone", `{"latitude": 1, "longitude": 2}`, &Forecast{}, "timezone"},
		{"datapoint without time", `{"temperature": 3}`, &Datapoint{}, "time"},
		{"nested datapoint without time",
			`{"latitude": 1, "longitude": 2, "timezone": "UTC", "hourly": {"data": [{"time": 1}, {"humidity": 0.5}]}}`,
			&Forecast{}, "time"},
		{"empty alert", `{}`, &Alert{}, "title"},
		{"alert without expires",
			`{"title": "t", "description": "d", "uri": "u", "regions": [], "severity": "watch", "time": 1}`,
			&Alert{}, "expires"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := json.Unmarshal([]byte(tt.payload), tt.target)
			var missing *MissingFieldError
			if !errors.As(err, &missing) {
				t.Fatalf("err = %v, want *MissingFieldError", err)
			}
			if missing.Field != tt.field {
				t.Errorf("field = %q, want %q", missing.Field, tt.field)
			}
		})
	}
}

func TestDecodeKeepsRequiredValues(t *testing.T) {
	var f Forecast
	payload := `{"latitude": 0, "longitude": -0.5, "timezone": "", "currently": {"time": 0}}`
	if err := json.Unmarshal([]byte(payload), &f); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if f.Latitude != 0 || f.Longitude != -0.5 || f.Currently == nil || f.Currently.Time != 0 {
		t.Errorf("forecast = %+v", f)
	}

	var a Alert
	payload = `{"title": "t", "description": "d", "uri": "u", "regions": null, "severity": "advisory", "time": 5, "expires": 9}`
	if err := json.Unmarshal([]byte(payload), &a); err != nil {
		t.Fatalf("Unmarshal alert failed: %v", err)
	}
	if a.Time != 5 || a.Expires != 9 || a.Severity != SeverityAdvisory {
		t.Errorf("alert = %+v", a)
	}
}

func TestDecodeRoundTripsStoredForecast(t *testing.T) {
	data := ForecastData{Provider: "DarkSky", Location: "Oslo"}
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var back ForecastData
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("stored forecast should decode: %v", err)
	}
}

func TestForecastBlock(t *testing.T) {
	f := Forecast{
		Minutely: &Datablock{Data: []Datapoint{{Time: 1}}},
		Hourly:   &Datablock{Data: []Datapoint{{Time: 2}, {Time: 3}}},
		Daily:    &Datablock{Data: []Datapoint{{Time: 4}}},
		Alerts:   []Alert{{Title: "a"}},
	}

	tests := []struct {
		name string
		want *Datablock
	}{
		{"minutely", f.Minutely},
		{"hourly", f.Hourly},
		{"daily", f.Daily},
		{"alerts", nil},
		{"currently", nil},
		{"", nil},
	}
	for _, tt := range tests {
		if got := f.Block(tt.name); got != tt.want {
			t.Errorf("Block(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}

	if (&Forecast{}).Block("hourly") != nil {
		t.Error("absent block should be nil")
	}
}

func TestAlertActiveBoundary(t *testing.T) {
	a := Alert{Time: 100, Expires: 200}

	tests := []struct {
		at   int64
		want bool
	}{
		{100, true},
		{199, true},
		{200, false},
		{201, false},
	}
	for _, tt := range tests {
		if got := a.Active(time.Unix(tt.at, 0)); got != tt.want {
			t.Errorf("Active(%d) = %v, want %v", tt.at, got, tt.want)
		}
	}
}

func TestDatablockNil(t *testing.T) {
	var b *Datablock
	if b.Len() != 0 {
		t.Errorf("nil Len = %d", b.Len())
	}
	if _, ok := b.First(); ok {
		t.Error("nil First should not be ok")
	}

	empty := &Datablock{}
	if _, ok := empty.First(); ok {
		t.Error("empty First should not be ok")
	}

	b = &Datablock{Data: []Datapoint{{Time: 7}, {Time: 8}}}
	if first, ok := b.First(); !ok || first.Time != 7 {
		t.Errorf("First = %v, %v", first, ok)
	}
}
