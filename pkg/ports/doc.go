/*
Package ports declares the interfaces the shell core depends on: the robot
session and its world model, program sources, and the history store. The
concrete adapters live under internal/.
*/
package ports
