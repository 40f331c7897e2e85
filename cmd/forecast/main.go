package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"darksky-forecast/darksky"
	"darksky-forecast/datasource"
	"darksky-forecast/models"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func main() {
	_ = godotenv.Load()

	lat := flag.Float64("lat", 0, "Latitude of the location")
	lon := flag.Float64("lon", 0, "Longitude of the location")
	token := flag.String("token", os.Getenv(datasource.TokenEnv), "API token")
	units := flag.String("units", "auto", "Unit system: auto, ca, si, uk2 or us")
	lang := flag.String("lang", "", "Summary language, defaults to $LANG")
	exclude := flag.String("exclude", "", "Comma separated blocks to exclude")
	extend := flag.Bool("extend", false, "Extend the hourly block to seven days")
	at := flag.String("time", "", "RFC 3339 time for a time machine request")
	debug := flag.Bool("debug", false, "Log requests")
	flag.Parse()

	if *token == "" {
		fmt.Printf("Error: no API token\n")
		fmt.Printf("Set %s in the environment or a .env file, or pass -token\n", datasource.TokenEnv)
		os.Exit(1)
	}

	opts, err := buildOptions(*units, *lang, *exclude, *extend)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	logger := zap.NewNop()
	if *debug {
		logger, _ = zap.NewDevelopment()
	}
	client, err := darksky.NewClient(*token, darksky.WithLogger(logger))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	configure := func(darksky.Options) darksky.Options { return opts }
	var forecast *models.Forecast
	if *at != "" {
		var when time.Time
		when, err = time.Parse(time.RFC3339, *at)
		if err != nil {
			fmt.Printf("Error: invalid -time: %v\n", err)
			os.Exit(1)
		}
		forecast, err = client.GetForecastTimeMachine(ctx, *lat, *lon, when, configure)
	} else {
		forecast, err = client.GetForecastWithOptions(ctx, *lat, *lon, configure)
	}
	if err != nil {
		fmt.Printf("Error getting forecast: %v\n", err)
		os.Exit(1)
	}

	displayForecast(forecast)
}

func buildOptions(units, lang, exclude string, extend bool) (darksky.Options, error) {
	opts := darksky.Options{}

	unit, err := darksky.ParseUnit(units)
	if err != nil {
		return opts, err
	}
	opts = opts.Unit(unit)

	if lang != "" {
		l, err := darksky.ParseLanguage(lang)
		if err != nil {
			return opts, err
		}
		opts = opts.Language(l)
	} else if tag, err := language.Parse(localeTag(os.Getenv("LANG"))); err == nil {
		opts = opts.Language(darksky.MatchLanguage(tag))
	}

	if exclude != "" {
		var blocks []darksky.Block
		for _, name := range strings.Split(exclude, ",") {
			b, err := darksky.ParseBlock(strings.TrimSpace(name))
			if err != nil {
				return opts, err
			}
			blocks = append(blocks, b)
		}
		opts = opts.Exclude(blocks...)
	}

	if extend {
		opts = opts.ExtendHourly()
	}
	return opts, nil
}

// localeTag turns a POSIX locale such as "de_DE.UTF-8" into "de-DE"
func localeTag(locale string) string {
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	return strings.ReplaceAll(locale, "_", "-")
}

func displayForecast(f *models.Forecast) {
	loc := f.Location()
	title := cases.Title(language.English)

	header := fmt.Sprintf("Forecast for %.4f,%.4f (%s):", f.Latitude, f.Longitude, f.Timezone)
	fmt.Printf("%s\n", header)
	fmt.Printf("%s\n", strings.Repeat("-", len(header)))

	if c := f.Currently; c != nil {
		fmt.Printf("Time:        %s\n", c.In(loc).Format("Mon 2006-01-02 15:04"))
		if summary, ok := models.Value(c.Summary); ok {
			fmt.Printf("Conditions:  %s\n", title.String(summary))
		}
		if temp, ok := models.Value(c.Temperature); ok {
			fmt.Printf("Temperature: %.1f\n", temp)
		}
		if feels, ok := models.Value(c.ApparentTemperature); ok {
			fmt.Printf("Feels Like:  %.1f\n", feels)
		}
		if humidity, ok := models.Value(c.Humidity); ok {
			fmt.Printf("Humidity:    %.0f%%\n", humidity*100)
		}
		if wind, ok := models.Value(c.WindSpeed); ok {
			fmt.Printf("Wind Speed:  %.1f\n", wind)
		}
		fmt.Println()
	}

	if f.Daily.Len() > 0 {
		if summary, ok := models.Value(f.Daily.Summary); ok {
			fmt.Printf("%s\n", summary)
		}
		for _, day := range f.Daily.Data {
			date := day.In(loc)
			fmt.Printf("%s %s: ", date.Format("Mon"), date.Format("2006-01-02"))
			fmt.Printf("%-30s", title.String(models.ValueOr(day.Summary, "")))
			if high, low, ok := day.HighLow(); ok {
				fmt.Printf(" High: %5.1f. Low: %5.1f.", high, low)
			}
			if prob, ok := models.Value(day.PrecipProbability); ok && prob > 0 {
				fmt.Printf(" Precip: %3.0f%%.", prob*100)
			}
			fmt.Println()
		}
		fmt.Println()
	}

	for _, alert := range f.ActiveAlerts(time.Now()) {
		fmt.Printf("ALERT (%s): %s, until %s\n", alert.Severity, alert.Title,
			alert.ExpiresAt().In(loc).Format("Mon 15:04"))
	}
}
