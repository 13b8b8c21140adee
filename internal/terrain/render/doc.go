// Package render draws contour sets for inspection: a static PNG through
// gonum/plot and an interactive HTML scatter through go-echarts. Neither is
// used on the planning path; both exist so a tile's contours can be eyeballed
// from the command line.
package render
