// Package viz provides terminal visualization for the particle simulation.
//
//   - [Canvas]: Braille dot canvas; [Canvas.PlotParticles] draws the box and
//     every particle
//   - [Model]: Bubble Tea live view that steps a solver on a timer
//
// # Key Bindings
//
//	Space   - Pause/Resume
//	R       - Reset to the initial particles and parameters
//	Tab     - Select next parameter
//	Up/K    - Increase selected parameter by 5%
//	Down/J  - Decrease selected parameter by 5%
//	+/-     - More/fewer solver steps per frame
//	T       - Cycle color themes
//	?       - Toggle help
//	Q       - Quit
package viz
