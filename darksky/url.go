package darksky

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// APIURL is the base URL of the Dark Sky API.
const APIURL = "https://api.darksky.net"

// URI formats the URL of a forecast request without options. Units are
// chosen automatically from the location.
func URI(token string, lat, lon float64) string {
	return buildURI(APIURL, token, lat, lon, nil, Options{}.Unit(UnitAuto))
}

// URIWithOptions formats the URL of a forecast request with options.
func URIWithOptions(token string, lat, lon float64, opts Options) string {
	return buildURI(APIURL, token, lat, lon, nil, opts)
}

// TimeMachineURI formats the URL of a time machine request for the
// conditions at the given time.
func TimeMachineURI(token string, lat, lon float64, at time.Time, opts Options) string {
	return buildURI(APIURL, token, lat, lon, &at, opts)
}

// buildURI renders base/forecast/token/lat,lon[,time][?query].
func buildURI(base, token string, lat, lon float64, at *time.Time, opts Options) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))
	b.WriteString("/forecast/")
	b.WriteString(url.PathEscape(token))
	b.WriteByte('/')
	b.WriteString(formatCoordinate(lat))
	b.WriteByte(',')
	b.WriteString(formatCoordinate(lon))
	if at != nil {
		b.WriteByte(',')
		b.WriteString(strconv.FormatInt(at.Unix(), 10))
	}
	if opts.Len() > 0 {
		b.WriteByte('?')
		b.WriteString(opts.Values().Encode())
	}
	return b.String()
}

// formatCoordinate uses the shortest representation that round-trips.
func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// redact hides the token in a request URL before it is logged.
func redact(rawURL, token string) string {
	if token == "" {
		return rawURL
	}
	return strings.Replace(rawURL, "/"+url.PathEscape(token)+"/", "/<token>/", 1)
}
