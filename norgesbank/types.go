package norgesbank

// Subset of the SDMX-JSON payload from data.norges-bank.no. Observation
// values are strings, indexed by observation position. Positions map to
// dates through the TIME_PERIOD observation dimension.
type sdmxData struct {
	Data struct {
		DataSets []struct {
			Series map[string]struct {
				Observations map[string][]string `json:"observations"`
			} `json:"series"`
		} `json:"dataSets"`
		Structure struct {
			Dimensions struct {
				Observation []struct {
					Id     string `json:"id"`
					Values []struct {
						Id string `json:"id"`
					} `json:"values"`
				} `json:"observation"`
			} `json:"dimensions"`
		} `json:"structure"`
	} `json:"data"`
	Meta struct {
		Prepared string `json:"prepared"`
	} `json:"meta"`
}
