package maps

// knownLocations maps Google place ids to the short location codes surcharge
// rules are scoped with. Kept small on purpose: only locations that carry
// their own fees (airport tolls) need an entry.
var knownLocations = map[string]string{
	// Toronto Pearson International Airport
	"ChIJkdQtwEo5K4gRxQ4DxOldHbQ": "pearson",
	// Billy Bishop Toronto City Airport
	"ChIJy4vtG89L0kwRV9HZQyB-ywQ": "island",
}

// LocationCode returns the surcharge scope code for the first recognised
// place id, or empty when the trip touches no fee-bearing location.
func LocationCode(placeIDs ...string) string {
	for _, id := range placeIDs {
		if code, ok := knownLocations[id]; ok {
			return code
		}
	}
	return ""
}
