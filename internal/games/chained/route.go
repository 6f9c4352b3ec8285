package chained

import (
	"github.com/vovakirdan/chained-autosplit/internal/core"
	"github.com/vovakirdan/chained-autosplit/internal/splits"
)

// Checkpoints is the full route in climbing order. Coordinates and radii
// are measured in-game; keep every literal exactly as it is.
var Checkpoints = []splits.Checkpoint{
	{Key: "underworld", Name: "Underworld", Predicate: core.NewSphere(48169.70, -6670.38, 10415.32, 1600)},
	{Key: "first_ladder", Name: "First Ladder", Predicate: core.NewBox(57607, 57647, -4686, -4602)},
	{Key: "hell_cliffs", Name: "Hell Cliffs", Predicate: core.NewSphere(58518.04, -5896.68, 22762.73, 600)},
	{Key: "hell_cliffs_drone", Name: "Hell Cliffs Drone", Predicate: core.NewSphere(63361.97, -7714.82, 28700, 150)},
	{Key: "the_car_race", Name: "The Car Race", Predicate: core.NewSphere(60736, -5806, 34473, 2000)},
	{Key: "rotating_cube", Name: "Rotating Cube", Predicate: core.NewSphere(57840.65, -4092.85, 40061.93, 550)},
	{Key: "the_whispering_vault", Name: "The Whispering Vault", Predicate: core.NewHeight(47380)},
	{Key: "open_the_door", Name: "Open The Door", Predicate: core.NewSphere(70099.82, -12091.44, 54309.28, 1000)},
	{Key: "the_aqua_maze", Name: "The Aqua Maze", Predicate: core.NewSphere(56175, -9616, 61161, 1900)},
	{Key: "the_subway_station", Name: "The Subway Station", Predicate: core.NewSphere(61164.22, -16430.15, 66112.40, 875)},
	{Key: "station_drone", Name: "Station Drone", Predicate: core.NewSphere(43285.67, -19387.02, 71659.89, 85)},
	{Key: "red_elevator_to_city", Name: "Red Elevator to City", Predicate: core.NewSphere(55934.05, -7474.58, 85888.98, 360)},
	{Key: "the_city", Name: "The City", Predicate: core.NewHeight(114310)},
	{Key: "city_crane", Name: "City Crane", Predicate: core.NewSphere(64600, -5950, 119450, 2340)},
	{Key: "double_crane_platforms", Name: "Double Crane Platforms", Predicate: core.NewSphere(54500, -9000, 125818, 2100)},
	{Key: "elevator_to_buildings", Name: "Elevator to Buildings", Predicate: core.NewSphere(59656, -7845, 133400, 1050)},
	{Key: "over_the_buildings", Name: "Over The Buildings", Predicate: core.NewHeight(139850)},
	{Key: "buildings_helicopter", Name: "Buildings Helicopter", Predicate: core.NewSphere(61241, -7060, 149050, 150)},
	{Key: "the_warehouse", Name: "The Warehouse", Predicate: core.NewHeight(155996)},
	{Key: "the_harbor", Name: "The Harbor", Predicate: core.NewUpperSphere(58833.19, -10168.21, 167476.00, 4100)},
	{Key: "blue_railing_chariot", Name: "Blue Railing Chariot", Predicate: core.NewSphere(55267, -9424, 175450, 2200)},
	{Key: "elevator_to_stairs", Name: "Elevator to Stairs", Predicate: core.NewSphere(60015, -5540, 180200, 1550)},
	{Key: "helicopter_to_temple", Name: "Helicopter to Temple", Predicate: core.NewSphere(63676.359, -12937.55, 203690, 150)},
	{Key: "the_temple", Name: "The Temple", Predicate: core.NewHeight(209230)},
	{Key: "elevator_to_asian_shrine", Name: "Elevator to Asian Shrine", Predicate: core.NewSphere(60844, -13114, 233000, 1800)},
	{Key: "the_asian_shrine", Name: "The Asian Shrine", Predicate: core.NewHeight(244140)},
	{Key: "wooden_horse_wagon", Name: "Wooden Horse Wagon", Predicate: core.NewSphere(57636, -9231, 270700, 1300)},
	{Key: "the_deities", Name: "The Deities", Predicate: core.NewSphere(40703.73, -1902.68, 278480.62, 2270)},
	{Key: "wooden_boat", Name: "Wooden Boat", Predicate: core.NewSphere(52432, -1512, 284710, 1600)},
	{Key: "zeus_lightning", Name: "Zeus Lightning", Predicate: core.NewSphere(81930, -23160, 301710, 610)},
	{Key: "air_balloon_pump", Name: "Air Balloon Pump", Predicate: core.NewSphere(45515, -11171, 307250, 100)},
	{Key: "the_garden", Name: "The Garden", Predicate: core.NewSphere(47610.46, -11083.54, 334514.26, 4200)},
	{Key: "the_final_trials", Name: "The Final Trials", Predicate: core.NewSphere(56907, -32509, 337997, 940)},
	{Key: "kiosk", Name: "Kiosk", Predicate: core.NewSphere(56351, -23282, 351400, 650)},
	{Key: "carriage", Name: "Carriage", Predicate: core.NewSphere(60435, -27560, 357470, 450)},
	{Key: "the_sun", Name: "The Sun", Predicate: core.NewSphere(89000, -4500, 373000, 8500)},
}

// lobby is where the player stands in the main menu.
var lobby = core.V(66649.54, -7418.37, 3118.52)

// InMenu reports whether p is the menu lobby (within one unit) or the
// origin, which the game reports while no level is loaded.
func InMenu(p core.Vec3) bool {
	return lobby.DistSq(p) <= 1 || p.IsOrigin()
}
