package model

// WeightedAverage is exported for testing
var WeightedAverage = weightedAverage
