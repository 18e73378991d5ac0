package testparser

import (
	"fmt"
	"strings"
	"testing"
)

func unityOutput(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i%10 == 0 {
			fmt.Fprintf(&b, "test_bench.c:%d:test_case_%d:FAIL: Expected %d Was %d\n", i, i, i, i+1)
			continue
		}
		fmt.Fprintf(&b, "test_bench.c:%d:test_case_%d:PASS\n", i, i)
	}
	fmt.Fprintf(&b, "\n-----------------------\n%d Tests %d Failures 0 Ignored\nFAIL\n", n, (n+9)/10)
	return b.String()
}

func BenchmarkUnityParser(b *testing.B) {
	parser := &UnityParser{}
	for _, n := range []int{10, 100, 1000} {
		output := unityOutput(n)
		b.Run(fmt.Sprintf("tests=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				parser.Parse(output)
			}
		})
	}
}
