package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/i474232898/weather-dashboard/internal/geo"
)

var (
	favName    string
	favCountry string
)

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav"},
	Short:   "Manage favorite locations",
}

var listFavoritesCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorite locations",
	Args:  cobra.NoArgs,
	RunE:  runListFavorites,
}

var addFavoriteCmd = &cobra.Command{
	Use:   "add <lat> <lon>",
	Short: "Add a favorite location",
	Args:  cobra.ExactArgs(2),
	RunE:  runAddFavorite,
}

var removeFavoriteCmd = &cobra.Command{
	Use:   "remove <key>",
	Short: "Remove a favorite by its key",
	Long:  `Remove a favorite by the key shown in "favorites list", e.g. 51.5074,-0.1278.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runRemoveFavorite,
}

func init() {
	rootCmd.AddCommand(favoritesCmd)
	favoritesCmd.AddCommand(listFavoritesCmd, addFavoriteCmd, removeFavoriteCmd)
	addFavoriteCmd.Flags().StringVar(&favName, "name", "", "place name")
	addFavoriteCmd.Flags().StringVar(&favCountry, "country", "", "country code")
}

func runListFavorites(cmd *cobra.Command, args []string) error {
	favs, err := deps.ctrl.Favorites(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list favorites: %w", err)
	}
	if len(favs) == 0 {
		fmt.Println("No favorites saved.")
		return nil
	}
	for _, f := range favs {
		fmt.Printf("%-20s %-30s added %s\n", f.Key, f.Coordinate().DisplayName(), f.AddedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func runAddFavorite(cmd *cobra.Command, args []string) error {
	lat, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid longitude: %w", err)
	}

	coord := geo.Coordinate{Lat: lat, Lon: lon, Name: favName, Country: favCountry}
	if coord.Name == "" {
		if city, err := deps.geocoder.ReverseGeocode(cmd.Context(), coord); err == nil {
			coord = coord.WithPlace(city.Name, city.Country)
		}
	}

	f, err := deps.ctrl.AddFavorite(cmd.Context(), coord)
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	fmt.Printf("Saved %s (%s)\n", f.Coordinate().DisplayName(), f.Key)
	return nil
}

func runRemoveFavorite(cmd *cobra.Command, args []string) error {
	if err := deps.ctrl.RemoveFavorite(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	fmt.Printf("Removed %s\n", args[0])
	return nil
}
