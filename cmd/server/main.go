package main

import "dealdesk/internal/app"

// @title           Dealdesk API
// @version         1.0
// @description     Deal lifecycle service: status governance, flow classification and priority ranking.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @host      localhost:8080
// @BasePath  /
func main() {
	app.Run()
}
