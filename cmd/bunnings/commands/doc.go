// Package commands defines the bunnings CLI and wires dependencies for subcommands.
//
// Commands
//
//   - bunnings            Search every suburb listed under STORES_DIR and export the rows
//   - bunnings <suburb>   Export the reviews of the first store found for one suburb
//   - aggregate           Roll a row CSV up by state or suburb
//   - map                 Join aggregates to boundary polygons and render a choropleth
//   - import              Load a row CSV into MongoDB as a run
//   - serve               Serve stored runs over HTTP
//
// # Configuration
//
// Settings come from the environment, optionally seeded from a .env file
// (--env-file). MongoDB and S3 are used only when MONGO_URI and
// S3_ARTIFACT_BUCKET are set.
package commands
