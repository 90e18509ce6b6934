package seed

type city struct {
	City      string
	State     string
	Latitude  float64
	Longitude float64
}

var cities = []city{
	{"New York", "New York", 40.7127837, -74.0059413},
	{"Los Angeles", "California", 34.0522342, -118.2436849},
	{"Chicago", "Illinois", 41.8781136, -87.6297982},
	{"Houston", "Texas", 29.7604267, -95.3698028},
	{"Philadelphia", "Pennsylvania", 39.9525839, -75.1652215},
	{"Phoenix", "Arizona", 33.4483771, -112.0740373},
	{"San Antonio", "Texas", 29.4241219, -98.4936282},
	{"San Diego", "California", 32.715738, -117.1610838},
	{"Dallas", "Texas", 32.7766642, -96.7969879},
	{"San Jose", "California", 37.3382082, -121.8863286},
	{"Austin", "Texas", 30.267153, -97.7430608},
	{"Jacksonville", "Florida", 30.3321838, -81.655651},
	{"San Francisco", "California", 37.7749295, -122.4194155},
	{"Columbus", "Ohio", 39.9611755, -82.9987942},
	{"Denver", "Colorado", 39.7392358, -104.990251},
	{"Seattle", "Washington", 47.6062095, -122.3320708},
	{"Nashville", "Tennessee", 36.1626638, -86.7816016},
	{"Portland", "Oregon", 45.5230622, -122.6764816},
	{"Las Vegas", "Nevada", 36.1699412, -115.1398296},
	{"Albuquerque", "New Mexico", 35.0853336, -106.6055534},
	{"Tucson", "Arizona", 32.2217429, -110.926479},
	{"Sacramento", "California", 38.5815719, -121.4943996},
	{"Salt Lake City", "Utah", 40.7607793, -111.8910474},
	{"Boise", "Idaho", 43.6187102, -116.2146068},
	{"Anchorage", "Alaska", 61.2180556, -149.9002778},
	{"Honolulu", "Hawaii", 21.3069444, -157.8583333},
	{"Asheville", "North Carolina", 35.5950581, -82.5514869},
	{"Bozeman", "Montana", 45.6769979, -111.0429339},
	{"Flagstaff", "Arizona", 35.1982836, -111.651302},
	{"Bend", "Oregon", 44.0581728, -121.3153096},
	{"Duluth", "Minnesota", 46.7866719, -92.1004852},
	{"Burlington", "Vermont", 44.4758825, -73.212072},
	{"Moab", "Utah", 38.5733155, -109.5498395},
	{"Santa Fe", "New Mexico", 35.6869752, -105.937799},
	{"Missoula", "Montana", 46.8721284, -113.9940314},
	{"Spokane", "Washington", 47.6587802, -117.4260466},
	{"Madison", "Wisconsin", 43.0730517, -89.4012302},
	{"Charleston", "South Carolina", 32.7765656, -79.9309216},
	{"Savannah", "Georgia", 32.0835407, -81.0998342},
	{"Bar Harbor", "Maine", 44.3876119, -68.2039123},
}

var descriptors = []string{
	"Forest", "Ancient", "Petrified", "Roaring", "Cascade", "Tumbling",
	"Silent", "Redwood", "Bullfrog", "Maple", "Misty", "Elk", "Grizzly",
	"Ocean", "Sea", "Sky", "Dusty", "Diamond",
}

var places = []string{
	"Flats", "Village", "Canyon", "Pond", "Group Camp", "Horse Camp",
	"Ghost Town", "Camp", "Dispersed Camp", "Backcountry", "River", "Creek",
	"Creekside", "Bay", "Spring", "Bayshore", "Sands", "Mule Camp",
	"Hunting Camp", "Cliffs", "Hollow",
}

const description = "Lorem ipsum, dolor sit amet consectetur adipisicing elit. Doloremque libero earum et voluptates? Obcaecati harum illo quasi. Iste, quasi sapiente labore ex velit, distinctio accusantium a quidem unde, ea mollitia!"
