package main

import "linktree_backend/internal/app"

func main() {
	app.Run()
}
