// Package classify assigns each raw node its target kind (TEXT, IMAGE,
// CONTAINER, or COMPONENT) and builds auto-layout descriptors for flex
// containers.
//
// Classification is a fixed decision order, first match wins:
//
//  1. Non-empty own text and no kept element children: TEXT
//  2. Image tag, inline SVG, or a background-image URL layer: IMAGE
//  3. Interactive tag or explicit interactive ARIA role: COMPONENT
//  4. Flex display: CONTAINER with an auto-layout descriptor
//  5. Everything else, including grid: plain CONTAINER
//
// Grid containers deliberately get no auto-layout descriptor; grid
// reconstruction is out of scope and approximating it as a flex axis would
// misplace children. The flex mapping is itself lossy in one documented
// place: space-around and space-evenly collapse to CENTER because the
// target alignment vocabulary has no equivalent.
package classify
