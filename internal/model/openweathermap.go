package model

// OpenWeatherMapResponse is the subset of the current-conditions payload the service reads.
// Main and Wind are pointers so a payload missing them can be told apart from zero values.
type OpenWeatherMapResponse struct {
	Name string              `json:"name"`
	Main *OpenWeatherMapMain `json:"main"`
	Wind *OpenWeatherMapWind `json:"wind"`
	// Rain is omitted by the provider when there has been no rain.
	Rain    *OpenWeatherMapRain       `json:"rain,omitempty"`
	Weather []OpenWeatherMapCondition `json:"weather"`
}

type OpenWeatherMapMain struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Pressure  int     `json:"pressure"`
	Humidity  int     `json:"humidity"`
}

type OpenWeatherMapWind struct {
	Speed float64 `json:"speed"`
	Deg   int     `json:"deg"`
}

type OpenWeatherMapRain struct {
	OneHour    *float64 `json:"1h,omitempty"`
	ThreeHours *float64 `json:"3h,omitempty"`
}

type OpenWeatherMapCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// OpenWeatherMapForecastResponse is the 5 day / 3 hour forecast payload.
type OpenWeatherMapForecastResponse struct {
	List []OpenWeatherMapForecastEntry `json:"list"`
	City struct {
		Name     string `json:"name"`
		Timezone int    `json:"timezone"` // offset from UTC in seconds
	} `json:"city"`
}

type OpenWeatherMapForecastEntry struct {
	Dt      int64                     `json:"dt"`
	Main    OpenWeatherMapMain        `json:"main"`
	Wind    OpenWeatherMapWind        `json:"wind"`
	Rain    *OpenWeatherMapRain       `json:"rain,omitempty"`
	Weather []OpenWeatherMapCondition `json:"weather"`
}
