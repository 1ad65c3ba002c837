// Package testdata holds fixtures shared by package tests.
package testdata

// Chart is a small .chart with a tempo change, a reserved modifier lane, a
// malformed line and two difficulties.
const Chart = `[Song]
{
  Name = "Test Song"
  Artist = "The Testers"
  Charter = Someone
  Offset = 0
  Resolution = 192
  Difficulty = 4
  Genre = "rock"
}
[SyncTrack]
{
  0 = TS 4
  0 = B 120000
  192 = B 90000
}
[Events]
{
  0 = E "section Intro"
}
[ExpertSingle]
{
  0 = N 0 0
  0 = N 1 0
  100 = N 6 0
  192 = N 2 96
  288 = S 2 96
  384 = N 4 0
  this line is broken
  576 = N 3 192
}
[EasySingle]
{
  0 = N 0 0
  384 = N 1 0
}
[HardDoubleBass]
{
  0 = N 0 0
}
`

// ChartExpertTimes are the note times of Chart's expert section.
var ChartExpertTimes = []float64{0, 0, 0.5, 1.167, 1.833}
