package main

import _ "github.com/urmzd/singingbell/docs"

// @title           Singing Bell API
// @version         1.0
// @description     Network control of a servo-driven singing bowl mallet

// @BasePath  /
// @schemes   http

func main() {
	Execute()
}
