package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

func main() {
	baseURL := flag.String("server", "http://localhost:8080", "Base URL of the forecast service")
	wait := flag.Duration("wait", 5*time.Second, "Time to give the service to collect initial data")
	flag.Parse()

	fmt.Println("Forecast API Client Example")
	fmt.Println("===========================")

	client := &http.Client{Timeout: 30 * time.Second}

	// Wait a moment for the server to fetch some data
	fmt.Println("Waiting for forecast service to collect initial data...")
	time.Sleep(*wait)

	// Get available locations
	fmt.Println("\nFetching available locations...")
	var locationsData struct {
		Locations []string `json:"locations"`
	}
	if err := getJSON(client, *baseURL+"/api/forecast/locations", &locationsData); err != nil {
		fmt.Printf("Error fetching locations: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Available locations: %v\n\n", locationsData.Locations)

	if len(locationsData.Locations) == 0 {
		fmt.Println("No locations available yet. Try again later.")
		return
	}

	// Query the first location
	location := locationsData.Locations[0]
	escaped := url.PathEscape(location)

	for _, endpoint := range []string{"currently", "history?limit=3"} {
		fmt.Printf("Fetching %s for %s...\n", endpoint, location)

		var data map[string]interface{}
		if err := getJSON(client, fmt.Sprintf("%s/api/forecast/location/%s/%s", *baseURL, escaped, endpoint), &data); err != nil {
			fmt.Printf("Error: %v\n\n", err)
			continue
		}

		// Pretty print the result
		prettyJSON, _ := json.MarshalIndent(data, "", "  ")
		fmt.Printf("%s\n\n", string(prettyJSON))
	}
}

func getJSON(client *http.Client, endpoint string, v interface{}) error {
	resp, err := client.Get(endpoint)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned %d: %s", endpoint, resp.StatusCode, body)
	}
	return json.Unmarshal(body, v)
}
