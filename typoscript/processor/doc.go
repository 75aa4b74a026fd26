// Package processor provides the built-in post-processors.
//
// [Register] adds them to a [typoscript.Processors] registry. Each is
// configured by the options of its chain step:
//
//	__processors:
//	  value:
//	    1: trim
//	    2: {__processorName: crop, maximumCharacters: 20, preOrSuffixString: "…"}
//	    3: {__processorName: wrap, prefix: "<p>", suffix: "</p>"}
package processor
