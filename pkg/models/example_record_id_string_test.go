package models

import "fmt"

func ExampleRecordID_String() {
	intID := NewRecordID("user", 12345)
	fmt.Println("intID:", intID.String())

	// Strings that would otherwise be read back as a number are enclosed in angle brackets.
	intLikeStringID := NewRecordID("user", "12345")
	fmt.Println("intLikeStringID:", intLikeStringID.String())

	// Output:
	// intID: user:12345
	// intLikeStringID: user:⟨12345⟩
}
